package credential

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "verifyhr/pkg/domain-errors"
)

var issuedAt = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func sampleEmployment() *Employment {
	rec := NewEmployment(EmploymentInput{
		EmployeeName: "Jane Doe",
		EmployeeID:   "E-42",
		Company:      "Acme",
		Role:         "Engineer",
		StartDate:    "2020-01-01",
		EndDate:      "2022-01-01",
	}, issuedAt)
	rec.meta.ID = "EMP-fixed" // pin the generated id so hashes are comparable
	return rec
}

func TestCanonicalizeDeterminism(t *testing.T) {
	rec := sampleEmployment()

	b1, h1, err := Canonicalize(rec)
	require.NoError(t, err)
	b2, h2, err := Canonicalize(rec)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.Equal(t, HashBytes(b1), h1)
}

func TestCanonicalizeFieldOrderIsFixed(t *testing.T) {
	b, _, err := Canonicalize(sampleEmployment())
	require.NoError(t, err)

	var keys []string
	dec := json.NewDecoder(bytes.NewReader(b))
	_, err = dec.Token() // opening brace
	require.NoError(t, err)
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		if key, ok := tok.(string); ok {
			keys = append(keys, key)
			var discard json.RawMessage
			require.NoError(t, dec.Decode(&discard))
		}
	}

	assert.Equal(t, []string{
		"credential_id", "type", "status", "issue_date",
		"employeeName", "employeeId", "company", "role",
		"startDate", "endDate",
	}, keys)
}

func TestCanonicalizeIncludesTypeAndStatus(t *testing.T) {
	open := NewEmployment(EmploymentInput{
		EmployeeName: "Jane Doe",
		EmployeeID:   "E-42",
		Company:      "Acme",
		Role:         "Engineer",
		StartDate:    "2020-01-01",
	}, issuedAt)
	open.meta.ID = "EMP-fixed"

	closed := sampleEmployment()

	_, openHash, err := Canonicalize(open)
	require.NoError(t, err)
	_, closedHash, err := Canonicalize(closed)
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, open.Meta().Status)
	assert.Equal(t, StatusClosed, closed.Meta().Status)
	assert.NotEqual(t, openHash, closedHash)
}

func TestCanonicalizeRejectsNil(t *testing.T) {
	_, _, err := Canonicalize(nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestParseRoundTrip(t *testing.T) {
	t.Run("employment", func(t *testing.T) {
		rec := sampleEmployment()
		b, h, err := Canonicalize(rec)
		require.NoError(t, err)

		parsed, err := Parse(b)
		require.NoError(t, err)

		b2, h2, err := Canonicalize(parsed)
		require.NoError(t, err)
		assert.Equal(t, b, b2)
		assert.Equal(t, h, h2)

		emp, ok := parsed.(*Employment)
		require.True(t, ok)
		assert.Equal(t, "Acme", emp.Company)
		assert.Equal(t, StatusClosed, emp.Meta().Status)
	})

	t.Run("education", func(t *testing.T) {
		rec := NewEducation(EducationInput{
			StudentName: "Jane Doe",
			StudentID:   "S-7",
			Institution: "State University",
			Degree:      "BSc",
			Major:       "Physics",
			StartDate:   "2015-09-01",
			EndDate:     "2019-06-30",
		}, issuedAt)

		b, h, err := Canonicalize(rec)
		require.NoError(t, err)

		parsed, err := Parse(b)
		require.NoError(t, err)
		_, h2, err := Canonicalize(parsed)
		require.NoError(t, err)
		assert.Equal(t, h, h2)
	})

	t.Run("unknown type tag", func(t *testing.T) {
		_, err := Parse([]byte(`{"type":"certification"}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Parse([]byte(`{{`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestSortByStartDate(t *testing.T) {
	a := NewEmployment(EmploymentInput{Company: "A", StartDate: "2021-01-01"}, issuedAt)
	b := NewEmployment(EmploymentInput{Company: "B", StartDate: "2019-01-01"}, issuedAt)
	c := NewEmployment(EmploymentInput{Company: "C", StartDate: "2020-06-15"}, issuedAt)

	records := []Record{a, b, c}
	SortByStartDate(records)

	assert.Equal(t, "B", records[0].(*Employment).Company)
	assert.Equal(t, "C", records[1].(*Employment).Company)
	assert.Equal(t, "A", records[2].(*Employment).Company)
}
