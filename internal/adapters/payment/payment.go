// Package payment defines the payment collaborator contract.
//
// The engine never talks to a gateway; it consumes the receipt a
// processor returns and flips the team's paid flag.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hacksprint/arena/internal/domain/clock"
	"github.com/hacksprint/arena/internal/domain/model"
)

// ErrDeclined indicates the processor rejected the charge.
var ErrDeclined = errors.New("payment declined")

// Processor is the external payment collaborator.
type Processor interface {
	Charge(ctx context.Context, teamID, tier, method string) (model.Receipt, error)
}

// RecordingProcessor approves every well-formed charge and records the
// receipts it issues. Stands in for a real gateway, which is out of scope.
type RecordingProcessor struct {
	mu       sync.Mutex
	clk      clock.Clock
	receipts []model.Receipt
}

// Option applies a configuration option to the RecordingProcessor.
type Option func(*RecordingProcessor)

// WithClock injects the time source for receipt timestamps.
func WithClock(c clock.Clock) Option {
	return func(p *RecordingProcessor) {
		if c != nil {
			p.clk = c
		}
	}
}

// NewRecordingProcessor constructs an approving processor.
func NewRecordingProcessor(opts ...Option) *RecordingProcessor {
	p := &RecordingProcessor{clk: clock.System()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Charge issues a receipt for the team. Empty tier or method is declined.
func (p *RecordingProcessor) Charge(ctx context.Context, teamID, tier, method string) (model.Receipt, error) {
	if strings.TrimSpace(tier) == "" || strings.TrimSpace(method) == "" {
		return model.Receipt{}, fmt.Errorf("%w: tier and method required", ErrDeclined)
	}
	r := model.Receipt{
		ID:       uuid.NewString(),
		TeamID:   teamID,
		Tier:     tier,
		Method:   method,
		IssuedAt: p.clk.Now(),
	}
	p.mu.Lock()
	p.receipts = append(p.receipts, r)
	p.mu.Unlock()
	return r, nil
}

// Receipts returns a copy of every receipt issued so far.
func (p *RecordingProcessor) Receipts() []model.Receipt {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Receipt, len(p.receipts))
	copy(out, p.receipts)
	return out
}
