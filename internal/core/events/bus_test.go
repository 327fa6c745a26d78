package events_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/legal-practice/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("delivers asynchronously even after the request context is cancelled", func() {
		var delivered, cancelled atomic.Int32
		bus.Subscribe(events.EventTypeRoleAssigned, func(ctx context.Context, e events.Event) error {
			if ctx.Err() != nil {
				cancelled.Add(1)
			}
			delivered.Add(1)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewRoleAssignedEvent(1, 2, 3))).To(Succeed())
		cancel()

		waitCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		Expect(bus.Wait(waitCtx)).To(Succeed())
		Expect(delivered.Load()).To(Equal(int32(1)))
		Expect(cancelled.Load()).To(BeZero())
	})

	It("stops synchronous delivery at the first failure", func() {
		var second bool
		bus.Subscribe(events.EventTypeRoleCreated, func(context.Context, events.Event) error { return errors.New("boom") })
		bus.Subscribe(events.EventTypeRoleCreated, func(context.Context, events.Event) error { second = true; return nil })

		Expect(bus.PublishSync(context.Background(), events.NewRoleCreatedEvent(1, "paralegal", 10, 10))).To(HaveOccurred())
		Expect(second).To(BeFalse())
	})

	It("writes audit records for access changes", func() {
		var buf bytes.Buffer
		events.RegisterAuditLog(bus, slog.New(slog.NewJSONHandler(&buf, nil)))

		Expect(bus.PublishSync(context.Background(), events.NewRolePermissionsSyncedEvent(4, []string{"view-cases"}, 10))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"event_type":"role.permissions_synced"`))
	})
})
