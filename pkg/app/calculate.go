package app

import (
	"context"
	"strings"
	"time"

	"tableflip.dev/dosebook/pkg/dose"
	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/logbook"
	"tableflip.dev/dosebook/pkg/session"
)

// CalcRequest is a calculate action as entered by the user.
type CalcRequest struct {
	Vial     string
	Compound string
	Input    dose.Input
	// Date is the scheduled date, MM/DD/YYYY. Empty means today.
	Date string
}

// CalcReport is a completed calculation plus the warnings shown with it.
type CalcReport struct {
	session.Calculation
	Params  dose.Params
	Result  dose.Result
	Used    int
	Syringe dose.Syringe
	Expires time.Time
	LowVial bool
}

// Fill is the fraction of the syringe the draw occupies.
func (r CalcReport) Fill() float64 {
	return r.Syringe.Fill(r.Units)
}

// Overflows reports a draw larger than the syringe.
func (r CalcReport) Overflows() bool {
	return r.Syringe.Overflows(r.Units)
}

// Calculate computes the dose for req and makes it the pending calculation.
// Invalid input fails before anything is written.
func (s *Service) Calculate(ctx context.Context, req CalcRequest) (CalcReport, error) {
	vial := strings.TrimSpace(req.Vial)
	if vial == "" {
		return CalcReport{}, errs.Errorf(errs.Validation, "dose", "vial name is required")
	}
	params, err := dose.Parse(req.Input)
	if err != nil {
		return CalcReport{}, err
	}
	now := s.now()
	date, err := scheduledDate(req.Date, now)
	if err != nil {
		return CalcReport{}, err
	}

	t, err := s.tracker(ctx, vial)
	if err != nil {
		return CalcReport{}, err
	}
	used := t.Get(vial)
	res := dose.Compute(params, used)

	calc := session.Calculation{
		Vial:         vial,
		Compound:     strings.TrimSpace(req.Compound),
		DoseMcg:      params.DoseMcg,
		DoseMg:       res.DoseMg,
		Units:        res.Units,
		DrawVolumeML: res.DrawVolumeML,
		Date:         date,
		Weight:       params.Weight,
		Remaining:    res.Remaining,
		MaxDoses:     res.MaxDoses,
	}

	st, err := s.State.Session()
	if err != nil {
		return CalcReport{}, err
	}
	st.Set(calc)
	if err := s.State.SaveSession(st); err != nil {
		return CalcReport{}, err
	}

	return CalcReport{
		Calculation: calc,
		Params:      params,
		Result:      res,
		Used:        used,
		Syringe:     s.Syringe(),
		Expires:     now.AddDate(0, 0, s.Config.BacExpiryDays()),
		LowVial:     res.Remaining < s.Config.WarnRemaining(),
	}, nil
}

func scheduledDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Format(logbook.DateLayout), nil
	}
	d, err := time.ParseInLocation(logbook.DateLayout, raw, time.Local)
	if err != nil {
		return "", errs.Errorf(errs.Validation, "dose", "date must be MM/DD/YYYY, got %q", raw)
	}
	return d.Format(logbook.DateLayout), nil
}
