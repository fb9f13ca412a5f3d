package domain

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseType(t *testing.T) {
	g := NewWithT(t)

	typ, err := ParseType("")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(typ).To(Equal(TypeNewProduct))

	typ, err = ParseType("high_demand")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(typ).To(Equal(TypeHighDemand))

	_, err = ParseType("high-demand")
	g.Expect(err).To(MatchError(ErrInvalidNotification))
}

func TestValidate(t *testing.T) {
	g := NewWithT(t)

	g.Expect((&Notification{Type: TypeSystem}).Validate()).To(MatchError(ErrInvalidNotification))
	g.Expect((&Notification{Message: "hi", Type: "bogus"}).Validate()).To(MatchError(ErrInvalidNotification))
	g.Expect((&Notification{Message: "hot", Type: TypeHighDemand}).Validate()).To(MatchError(ErrInvalidNotification))
	g.Expect((&Notification{
		Message:    "hot",
		Type:       TypeHighDemand,
		DemandData: &DemandData{SalesCount: 6, TimeFrame: DefaultTimeFrame},
	}).Validate()).To(Succeed())
	g.Expect((&Notification{Message: "sale", Type: TypePromotion}).Validate()).To(Succeed())
}
