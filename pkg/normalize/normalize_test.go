package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/normalize"
)

func TestCollegeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", constants.UnknownCollege},
		{"dash", "-", constants.UnknownCollege},
		{"whitespace and newlines", "  Indian Institute\nof   Technology ", "Indian Institute of Technology"},
		{"iit abbreviation", "iit madras", "IIT madras"},
		{"iiit not confused with iit", "Iiit Hyderabad", "IIIT Hyderabad"},
		{"bits", "Bits Pilani", "BITS Pilani"},
		{"st with period", "St Joseph's College", "St. Joseph's College"},
		{"dr with period", "Dr Ambedkar Institute", "Dr. Ambedkar Institute"},
		{"word boundary", "Mitra College", "Mitra College"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.CollegeName(tt.in))
		})
	}
}

func TestCourseName(t *testing.T) {
	assert.Equal(t, constants.NotSpecified, normalize.CourseName(""))
	assert.Equal(t, "B.E. Computer Science and Engineering", normalize.CourseName("B.E.\n cse"))
	assert.Equal(t, "Electronics and Communication Engineering", normalize.CourseName("ECE"))
}

func TestText(t *testing.T) {
	assert.Equal(t, constants.NotAvailable, normalize.Text(" "))
	assert.Equal(t, constants.NotAvailable, normalize.Text("-"))
	assert.Equal(t, "Tamil Nadu", normalize.Text(" Tamil  Nadu"))
}

func TestList(t *testing.T) {
	assert.Equal(t, "Library, Hostel, Wifi", normalize.List("Library\nHostel\r\n\nWifi"))
	assert.Equal(t, constants.NotAvailable, normalize.List(""))
}

func TestParseFee(t *testing.T) {
	fee, err := normalize.ParseFee("₹1,25,000")
	require.NoError(t, err)
	amount, ok := fee.Value()
	require.True(t, ok)
	assert.Equal(t, 125000.0, amount)

	fee, err = normalize.ParseFee("0")
	require.NoError(t, err)
	assert.False(t, fee.IsAbsent(), "zero is a valid fee")

	fee, err = normalize.ParseFee("")
	require.NoError(t, err)
	assert.True(t, fee.IsAbsent())

	fee, err = normalize.ParseFee("on request")
	assert.True(t, errors.IsParseError(err))
	assert.True(t, fee.IsAbsent())

	assert.True(t, normalize.Fee("-500").IsAbsent())
	assert.True(t, normalize.Fee("nan").IsAbsent())
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 12.0 ", 12, false},
		{"101-150", constants.WorstRank, true},
		{"", constants.WorstRank, true},
		{"0", constants.WorstRank, true},
		{"-3", constants.WorstRank, true},
		{"12.7", constants.WorstRank, true},
		{"1e20", constants.WorstRank, true},
		{"99999999999999999999", constants.WorstRank, true},
		{"+Inf", constants.WorstRank, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalize.ParseRank(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.True(t, errors.IsParseError(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, normalize.Rank(tt.in))
		})
	}
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, 1958, normalize.Int("1958.0"))
	assert.Equal(t, 0, normalize.Int("unknown"))
	assert.Equal(t, 4.2, normalize.Float("4.2"))
	assert.Equal(t, 0.0, normalize.Float(""))

	for _, in := range []string{"1e20", "-1e20", "99999999999999999999"} {
		v, err := normalize.ParseInt(in)
		assert.Equal(t, 0, v, in)
		assert.True(t, errors.IsParseError(err), in)
		assert.Equal(t, 0, normalize.Int(in), in)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Vidyapeetha Ecole", normalize.Fold("Vidyāpeetha École"))
	assert.Equal(t, "plain", normalize.Fold("plain"))
}
