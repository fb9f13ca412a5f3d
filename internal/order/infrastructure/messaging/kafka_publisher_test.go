package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/wyfcoding/storefront/internal/order/domain"
)

type fakeSender struct {
	topic, key string
	value      any
	err        error
}

func (f *fakeSender) SendMessage(_ context.Context, topic, key string, value any) error {
	f.topic, f.key, f.value = topic, key, value
	return f.err
}

func TestPublishOrderPlaced(t *testing.T) {
	g := NewWithT(t)
	s := &fakeSender{}
	p := NewKafkaPublisher(s, "")

	e := domain.OrderPlacedEvent{OrderID: "o1", UserID: "u1", ItemCount: 3, OccurredOn: time.Now()}
	g.Expect(p.PublishOrderPlaced(context.Background(), e)).To(Succeed())
	g.Expect(s.topic).To(Equal(TopicOrderPlaced))
	g.Expect(s.key).To(Equal("o1"))
	g.Expect(s.value).To(Equal(e))

	s.err = errors.New("broker down")
	g.Expect(p.PublishOrderPlaced(context.Background(), e)).To(MatchError(ContainSubstring("broker down")))
}
