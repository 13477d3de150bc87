package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateRun(t *testing.T) {
	valid := func() *model.Run {
		return &model.Run{
			HotelName: "Grand Hotel",
			Stage:     "finalized",
			Currency:  "USD",
			Nights:    2,
			CheckIn:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*model.Run) *model.Run
		wantErr error
	}{
		{
			name:   "valid run",
			mutate: func(r *model.Run) *model.Run { return r },
		},
		{
			name:    "nil run",
			mutate:  func(*model.Run) *model.Run { return nil },
			wantErr: ErrNilParameter,
		},
		{
			name: "missing hotel",
			mutate: func(r *model.Run) *model.Run {
				r.HotelName = "  "
				return r
			},
			wantErr: ErrInvalidRun,
		},
		{
			name: "missing stage",
			mutate: func(r *model.Run) *model.Run {
				r.Stage = ""
				return r
			},
			wantErr: ErrInvalidRun,
		},
		{
			name: "missing currency",
			mutate: func(r *model.Run) *model.Run {
				r.Currency = ""
				return r
			},
			wantErr: ErrInvalidRun,
		},
		{
			name: "zero nights",
			mutate: func(r *model.Run) *model.Run {
				r.Nights = 0
				return r
			},
			wantErr: ErrInvalidRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRun(tt.mutate(valid()))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateRun() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateRun() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
