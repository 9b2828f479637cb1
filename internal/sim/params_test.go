package sim

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"defaults", func(p *Params) {}, nil},
		{"zero nodes", func(p *Params) { p.NumNodes = 0 }, ErrInvalidParameter},
		{"negative degree", func(p *Params) { p.AvgNodeDegree = -1 }, ErrInvalidParameter},
		{"nan degree", func(p *Params) { p.AvgNodeDegree = math.NaN() }, ErrInvalidParameter},
		{"inf engagement", func(p *Params) { p.Population.Engagement = math.Inf(1) }, ErrInvalidParameter},
		{"nan stakeholder", func(p *Params) { p.Stakeholders[Media] = math.NaN() }, ErrInvalidParameter},
		{"five nodes", func(p *Params) { p.NumNodes = 5 }, ErrInsufficientNodes},
		{"six nodes", func(p *Params) { p.NumNodes = 6 }, nil},
		{"negative trustability allowed", func(p *Params) { p.Population.Trustability = -2 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParameterErrorMessage(t *testing.T) {
	p := DefaultParams()
	p.NumNodes = 3
	err := p.Validate()

	var pe *ParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParameterError, got %T", err)
	}
	if pe.Field != "num_nodes" {
		t.Errorf("expected field num_nodes, got %s", pe.Field)
	}
	if !strings.Contains(err.Error(), "num_nodes=3") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestParamsCloneIndependent(t *testing.T) {
	p := DefaultParams()
	c := p.Clone()
	c.Stakeholders[Civil] = 0.3
	if p.Stakeholders[Civil] != -1 {
		t.Error("Clone shares the stakeholder map")
	}
}
