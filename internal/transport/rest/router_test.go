package rest_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Transport Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("should ship the document the router serves at /openapi.yml", func() {
		// Given: the route serves ./api/openapi.yml relative to the repo root
		_, thisFile, _, ok := runtime.Caller(0)
		Expect(ok).To(BeTrue())
		docPath := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "api", "openapi.yml")

		// When
		data, err := os.ReadFile(docPath)

		// Then
		Expect(err).ToNot(HaveOccurred())
		doc := string(data)
		Expect(strings.HasPrefix(doc, "openapi:")).To(BeTrue())
		Expect(doc).To(ContainSubstring("/auth/login"))
		Expect(doc).To(ContainSubstring("modify_equipment_profiles"))
	})
})
