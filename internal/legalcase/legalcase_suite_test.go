package legalcase_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLegalCase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Legal Case Suite")
}
