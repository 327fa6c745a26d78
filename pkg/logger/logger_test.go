package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/frahmantamala/legal-practice/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	AfterEach(func() {
		logger.Init("development")
	})

	It("writes JSON records at the configured level", func() {
		var buf bytes.Buffer
		logger.Configure(&buf, "warn", "json")

		logger.LoggerWrapper().Info("dropped")
		logger.LoggerWrapper().Warn("kept", "user_id", 7)

		var record map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
		Expect(record["msg"]).To(Equal("kept"))
		Expect(record["user_id"]).To(BeEquivalentTo(7))
	})

	It("carries fields bound to the context", func() {
		var buf bytes.Buffer
		logger.Configure(&buf, "debug", "json")

		ctx := logger.With(context.Background(), "request_id", "abc")
		logger.From(ctx).Info("hello")

		Expect(buf.String()).To(ContainSubstring(`"request_id":"abc"`))
	})

	It("falls back to the process logger without a bound one", func() {
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})
})
