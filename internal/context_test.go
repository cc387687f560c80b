package internal_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/equiptrack/inventory-management/internal"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Module Suite")
}

var _ = Describe("WithTimeout", func() {
	It("should apply the requested timeout", func() {
		// When
		ctx, cancel := internal.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		// Then
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("<=", 2*time.Second))
	})

	It("should fall back to the default for non-positive durations", func() {
		// When
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()

		// Then
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically(">", 2*time.Second))
		Expect(time.Until(deadline)).To(BeNumerically("<=", internal.DefaultOperationTimeout))
	})
})
