// Package tradeDialog drives the Reason -> Amount -> RiskConfirm wizard over a model.TradeIntent.
// The intent is a plain value so it can live in the chat session between updates.
package tradeDialog

import (
	"errors"
	"fmt"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/google/uuid"
)

const ReasonRequiredMsg = "Selection Required: Please select a reason for your trade."

var (
	ErrReasonRequired = errors.New(ReasonRequiredMsg)
	ErrInvalidAmount  = errors.New("invalid share count")
	ErrWrongStep      = errors.New("action is not allowed on this step")
	ErrClosed         = errors.New("trade dialog is closed")
	ErrNothingToSell  = errors.New("no shares to sell")
)

type RiskGenerator interface {
	Illustrative() int
}

type Limits struct {
	MinShares     int
	MaxShares     int
	DefaultShares int
}

type Machine struct {
	limits Limits
	risk   RiskGenerator
}

func New(limits Limits, risk RiskGenerator) *Machine {
	if limits.MinShares <= 0 {
		limits.MinShares = 1
	}
	if limits.MaxShares < limits.MinShares {
		limits.MaxShares = limits.MinShares
	}
	return &Machine{limits: limits, risk: risk}
}

// Open snapshots the market price. available is the held quantity, used for the Sell bound.
func (m *Machine) Open(quote model.Quote, side model.Side, available int) (model.TradeIntent, error) {
	if side != model.Buy && side != model.Sell {
		return model.TradeIntent{}, fmt.Errorf("unknown trade side %q", side)
	}
	if side == model.Sell && available <= 0 {
		return model.TradeIntent{}, ErrNothingToSell
	}
	if !quote.Price.IsPositive() {
		return model.TradeIntent{}, fmt.Errorf("no market price for %s", quote.Ticker)
	}

	return model.TradeIntent{
		ID:          newIntentID(),
		Ticker:      quote.Ticker,
		CompanyName: quote.Name,
		Side:        side,
		Step:        model.StepReason,
		Available:   available,
		MarketPrice: quote.Price,
	}, nil
}

// newIntentID is short because the id rides in callback data, which Telegram caps at 64 bytes.
func newIntentID() string {
	return uuid.NewString()[:intentIDLen]
}

const intentIDLen = 8

// MaxShares is the upper bound of the amount step for this intent.
func (m *Machine) MaxShares(in model.TradeIntent) int {
	upper := m.limits.MaxShares
	if in.Side == model.Sell && in.Available < upper {
		upper = in.Available
	}
	return upper
}

func (m *Machine) SelectReason(in *model.TradeIntent, code string) error {
	if err := expect(in, model.StepReason); err != nil {
		return err
	}
	if _, ok := model.FindReason(in.Side, code); !ok {
		return ErrReasonRequired
	}
	in.ReasonCode = code
	return nil
}

func (m *Machine) SetShares(in *model.TradeIntent, shares int) error {
	if err := expect(in, model.StepAmount); err != nil {
		return err
	}
	if err := m.validShares(*in, shares); err != nil {
		return err
	}
	in.ShareCount = shares
	return nil
}

// AddShares moves the slider by delta and clamps it to the allowed range.
func (m *Machine) AddShares(in *model.TradeIntent, delta int) error {
	if err := expect(in, model.StepAmount); err != nil {
		return err
	}
	shares := in.ShareCount + delta
	shares = max(shares, m.limits.MinShares)
	shares = min(shares, m.MaxShares(*in))
	in.ShareCount = shares
	return nil
}

// Next validates the current step and moves forward. Entering RiskConfirm draws the risk value.
func (m *Machine) Next(in *model.TradeIntent) error {
	if in.Step.Terminal() {
		return ErrClosed
	}

	switch in.Step {
	case model.StepReason:
		if _, ok := model.FindReason(in.Side, in.ReasonCode); !ok {
			return ErrReasonRequired
		}
		if in.ShareCount == 0 {
			in.ShareCount = min(max(m.limits.DefaultShares, m.limits.MinShares), m.MaxShares(*in))
		}
		in.Step = model.StepAmount
	case model.StepAmount:
		if err := m.validShares(*in, in.ShareCount); err != nil {
			return err
		}
		in.RiskPercent = m.risk.Illustrative()
		in.Step = model.StepRiskConfirm
	default:
		return ErrWrongStep
	}
	return nil
}

func (m *Machine) Back(in *model.TradeIntent) error {
	switch in.Step {
	case model.StepAmount:
		in.Step = model.StepReason
	case model.StepRiskConfirm:
		in.RiskPercent = 0
		in.Step = model.StepAmount
	case model.StepCommitted, model.StepCancelled:
		return ErrClosed
	default:
		return ErrWrongStep
	}
	return nil
}

func (m *Machine) Cancel(in *model.TradeIntent) error {
	if in.Step.Terminal() {
		return ErrClosed
	}
	in.Step = model.StepCancelled
	return nil
}

// Confirm runs commit and closes the dialog on success. A failed commit keeps the intent in RiskConfirm.
func (m *Machine) Confirm(in *model.TradeIntent, commit func(model.TradeIntent) error) error {
	if err := expect(in, model.StepRiskConfirm); err != nil {
		return err
	}
	if err := commit(*in); err != nil {
		return err
	}
	in.Step = model.StepCommitted
	return nil
}

func (m *Machine) validShares(in model.TradeIntent, shares int) error {
	upper := m.MaxShares(in)
	if shares < m.limits.MinShares || shares > upper {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidAmount, m.limits.MinShares, upper)
	}
	return nil
}

func expect(in *model.TradeIntent, step model.TradeStep) error {
	if in.Step.Terminal() {
		return ErrClosed
	}
	if in.Step != step {
		return ErrWrongStep
	}
	return nil
}
