package auth_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/equiptrack/inventory-management/internal/auth"
)

var _ = Describe("PasswordHasher", func() {
	var hasher *auth.PasswordHasher

	BeforeEach(func() {
		// Low iteration count keeps the suite fast; the format is identical.
		hasher = auth.NewPasswordHasher(10_000)
	})

	Describe("Hash", func() {
		It("should produce the iterations.salt.hash format", func() {
			// When
			stored, err := hasher.Hash("s3cret-password")

			// Then
			Expect(err).ToNot(HaveOccurred())
			parts := strings.Split(stored, ".")
			Expect(parts).To(HaveLen(3))
			Expect(parts[0]).To(Equal("10000"))
		})

		It("should produce different hashes for the same password", func() {
			// Given
			first, err := hasher.Hash("same-password")
			Expect(err).ToNot(HaveOccurred())

			// When
			second, err := hasher.Hash("same-password")

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(first).ToNot(Equal(second))
		})
	})

	Describe("Verify", func() {
		It("should accept the original password", func() {
			// Given
			stored, err := hasher.Hash("correct horse battery staple")
			Expect(err).ToNot(HaveOccurred())

			// When
			ok, err := hasher.Verify("correct horse battery staple", stored)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should reject a wrong password", func() {
			// Given
			stored, err := hasher.Hash("correct horse battery staple")
			Expect(err).ToNot(HaveOccurred())

			// When
			ok, err := hasher.Verify("incorrect horse", stored)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should verify hashes made with a different iteration count", func() {
			// Given: the stored value carries its own work factor
			oldHasher := auth.NewPasswordHasher(15_000)
			stored, err := oldHasher.Hash("password-from-old-config")
			Expect(err).ToNot(HaveOccurred())

			// When
			ok, err := hasher.Verify("password-from-old-config", stored)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		Context("when the stored value is a legacy plaintext password", func() {
			It("should return false without an error", func() {
				// When
				ok, err := hasher.Verify("plaintext", "plaintext")

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(ok).To(BeFalse())
			})
		})

		Context("when the stored value is corrupt", func() {
			It("should report ErrCorruptCredential for a bad iteration count", func() {
				// When
				ok, err := hasher.Verify("anything", "notanumber.c2FsdA==.aGFzaA==")

				// Then
				Expect(ok).To(BeFalse())
				Expect(err).To(MatchError(auth.ErrCorruptCredential))
			})

			It("should report ErrCorruptCredential for undecodable base64", func() {
				// When
				ok, err := hasher.Verify("anything", "10000.!!!.aGFzaA==")

				// Then
				Expect(ok).To(BeFalse())
				Expect(err).To(MatchError(auth.ErrCorruptCredential))
			})
		})
	})

	Describe("IsHashedCredential", func() {
		It("should recognize the structured format", func() {
			stored, err := hasher.Hash("some password")
			Expect(err).ToNot(HaveOccurred())
			Expect(auth.IsHashedCredential(stored)).To(BeTrue())
		})

		It("should treat plaintext values as legacy", func() {
			Expect(auth.IsHashedCredential("hunter2")).To(BeFalse())
		})

		It("should treat plaintext with a single dot as legacy", func() {
			Expect(auth.IsHashedCredential("pass.word")).To(BeFalse())
		})
	})
})
