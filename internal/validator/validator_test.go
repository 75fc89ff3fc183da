package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type sample struct {
	Color     string `binding:"omitempty,hex_color"`
	Type      string `binding:"omitempty,transaction_type"`
	Sharing   string `binding:"omitempty,sharing_type"`
	Payment   string `binding:"omitempty,payment_method"`
	Frequency string `binding:"omitempty,frequency"`
	Period    string `binding:"omitempty,budget_period"`
	Priority  string `binding:"omitempty,notification_priority"`
}

func TestRegister(t *testing.T) {
	Register()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("expected go-playground validator engine")
	}
	v.SetTagName("binding")

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"all_valid", sample{"#FFAA00", "expense", "shared", "bank_transfer", "monthly", "custom", "urgent"}, true},
		{"empty_is_allowed", sample{}, true},
		{"short_hex", sample{Color: "#fa0"}, true},
		{"bad_hex", sample{Color: "orange"}, false},
		{"transfer_type", sample{Type: "transfer"}, false},
		{"bad_sharing", sample{Sharing: "family"}, false},
		{"bad_payment", sample{Payment: "cheque"}, false},
		{"hourly", sample{Frequency: "hourly"}, false},
		{"weekly_period", sample{Period: "weekly"}, false},
		{"bad_priority", sample{Priority: "critical"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.input)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
