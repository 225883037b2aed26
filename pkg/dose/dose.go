// Package dose computes draw volumes and remaining-dose counts for a
// reconstituted vial.
package dose

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tableflip.dev/dosebook/pkg/errs"
)

// Input is the raw text of the calculation fields as the user typed them.
type Input struct {
	SizeMg  string
	BacML   string
	DoseMcg string
	Weight  string
}

// Params are the parsed calculation inputs.
type Params struct {
	SizeMg  float64
	BacML   float64
	DoseMcg float64
	Weight  float64
}

// TotalMcg is the vial content in micrograms.
func (p Params) TotalMcg() float64 {
	return p.SizeMg * 1000
}

// Result is the outcome of a calculation.
type Result struct {
	Concentration float64 // mcg per mL
	DrawVolumeML  float64
	Units         float64 // hundredths of a mL
	MaxDoses      int
	Remaining     int
	DoseMg        float64
}

// doseLimit bounds the dose count of one vial so it fits an int everywhere.
const doseLimit = math.MaxInt32

// Parse validates in and converts it to Params. Size, BAC volume and dose must
// be positive; weight may be zero.
func Parse(in Input) (Params, error) {
	var (
		p   Params
		err error
	)
	if p.SizeMg, err = positive("vial size", in.SizeMg); err != nil {
		return Params{}, err
	}
	if p.BacML, err = positive("BAC volume", in.BacML); err != nil {
		return Params{}, err
	}
	if p.DoseMcg, err = positive("dose", in.DoseMcg); err != nil {
		return Params{}, err
	}
	if p.Weight, err = number("weight", in.Weight); err != nil {
		return Params{}, err
	}
	if p.Weight < 0 {
		return Params{}, errs.Errorf(errs.Validation, "dose", "weight must not be negative, got %q", in.Weight)
	}
	if p.TotalMcg()/p.DoseMcg > doseLimit {
		return Params{}, errs.Errorf(errs.Validation, "dose", "vial size %q holds more than %d doses of %q mcg", in.SizeMg, doseLimit, in.DoseMcg)
	}
	return p, nil
}

func number(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errs.Errorf(errs.Validation, "dose", "%s is required", field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errs.Errorf(errs.Validation, "dose", "%s must be a number, got %q", field, raw)
	}
	return v, nil
}

func positive(field, raw string) (float64, error) {
	v, err := number(field, raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errs.Errorf(errs.Validation, "dose", "%s must be greater than zero, got %q", field, raw)
	}
	return v, nil
}

// Compute derives the draw volume and dose counts for p given used doses
// already taken from the vial. p must come from Parse.
func Compute(p Params, used int) Result {
	total := p.TotalMcg()
	concentration := total / p.BacML
	volume := Round(p.DoseMcg/concentration, 3)
	maxDoses := int(math.Floor(total / p.DoseMcg))

	return Result{
		Concentration: concentration,
		DrawVolumeML:  volume,
		Units:         Round(volume*100, 1),
		MaxDoses:      maxDoses,
		Remaining:     Remaining(maxDoses, used),
		DoseMg:        Round(p.DoseMcg/1000, 3),
	}
}

// Remaining is max(maxDoses-used, 0).
func Remaining(maxDoses, used int) int {
	if used < 0 {
		used = 0
	}
	if r := maxDoses - used; r > 0 {
		return r
	}
	return 0
}

// exactDigits covers every fractional digit a float64 can carry.
const exactDigits = 1100

// Round rounds v to places decimal digits with ties to even. A tie is judged
// on the exact binary value of v, so 0.0625 rounds to 0.062 while 2.675,
// stored just below the half, rounds to 2.67.
func Round(v float64, places int32) float64 {
	exact, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', exactDigits, 64))
	if err != nil {
		return v
	}
	f, _ := exact.RoundBank(places).Float64()
	return f
}
