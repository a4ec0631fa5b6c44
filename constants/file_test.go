package constants

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IsAllowedExt", func() {
	It("accepts the supported image extensions in any spelling", func() {
		for _, ext := range []string{"jpg", ".jpg", "JPEG", ".PNG", "webp"} {
			Expect(IsAllowedExt(ext)).To(BeTrue(), "extension %q", ext)
		}
	})

	It("rejects everything else", func() {
		for _, ext := range []string{".gif", "pdf", ".heic", ""} {
			Expect(IsAllowedExt(ext)).To(BeFalse(), "extension %q", ext)
		}
	})
})

var _ = Describe("NormalizeExt", func() {
	It("lowercases and strips the leading dot", func() {
		Expect(NormalizeExt(".JPEG")).To(Equal("jpeg"))
		Expect(NormalizeExt("png")).To(Equal("png"))
	})
})
