package timefmt

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "reference timestamp",
			in:   time.Date(2024, time.May, 12, 22, 45, 0, 0, time.UTC),
			want: "12th May 2024 at 22:45",
		},
		{
			name: "1st",
			in:   time.Date(2024, time.January, 1, 0, 5, 0, 0, time.UTC),
			want: "1st January 2024 at 00:05",
		},
		{
			name: "2nd",
			in:   time.Date(2024, time.March, 2, 9, 30, 0, 0, time.UTC),
			want: "2nd March 2024 at 09:30",
		},
		{
			name: "3rd",
			in:   time.Date(2024, time.March, 3, 9, 30, 0, 0, time.UTC),
			want: "3rd March 2024 at 09:30",
		},
		{
			name: "11th not 11st",
			in:   time.Date(2024, time.June, 11, 14, 0, 0, 0, time.UTC),
			want: "11th June 2024 at 14:00",
		},
		{
			name: "21st",
			in:   time.Date(2024, time.June, 21, 14, 0, 0, 0, time.UTC),
			want: "21st June 2024 at 14:00",
		},
		{
			name: "22nd",
			in:   time.Date(2024, time.December, 22, 23, 59, 0, 0, time.UTC),
			want: "22nd December 2024 at 23:59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrdinalSuffix_Teens(t *testing.T) {
	// Every day from 10 through 20 takes "th".
	for day := 10; day <= 20; day++ {
		if got := ordinalSuffix(day); got != "th" {
			t.Errorf("ordinalSuffix(%d) = %q, want %q", day, got, "th")
		}
	}
}
