package drivers

import "testing"

func TestParseState(t *testing.T) {
	tests := []struct {
		input string
		want  State
		ok    bool
	}{
		{"on", On, true},
		{"ON", On, true},
		{"On", On, true},
		{"1", On, true},
		{"off", Off, true},
		{"OFF", Off, true},
		{"0", Off, true},
		{"true", Off, false},
		{"2", Off, false},
		{"", Off, false},
		{"list_all", Off, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseState(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseState(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseDegree(t *testing.T) {
	tests := []struct {
		input string
		want  Degree
		ok    bool
	}{
		{"F", Fahrenheit, true},
		{"f", Fahrenheit, true},
		{"C", Celsius, true},
		{"c", Celsius, true},
		{"K", Celsius, false},
		{"fahrenheit", Celsius, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDegree(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseDegree(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	if On.String() != "On" || Off.String() != "Off" {
		t.Errorf("State strings = %q/%q", On, Off)
	}
	if Fahrenheit.String() != "Fahrenheit" || Celsius.String() != "Celsius" {
		t.Errorf("Degree strings = %q/%q", Fahrenheit, Celsius)
	}
	if got := (Revision{Major: 2, Minor: 0}).String(); got != "V2.00" {
		t.Errorf("Revision.String() = %q, want V2.00", got)
	}
}
