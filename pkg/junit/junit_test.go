package junit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/pyadapter/pkg/domain"
)

const pytestReport = `<?xml version="1.0" encoding="utf-8"?>
<testsuites>
  <testsuite name="pytest" errors="1" failures="1" skipped="1" tests="5" time="0.120">
    <testcase classname="tests.test_spam" name="test_ok" time="0.001" />
    <testcase classname="tests.test_spam.TestEggs" name="test_fail" time="0.010">
      <failure message="assert 1 == 2">def test_fail(self):
&gt;       assert 1 == 2
E       assert 1 == 2</failure>
    </testcase>
    <testcase classname="tests.test_spam" name="test_param[1-2]" time="0.002" />
    <testcase classname="tests.test_spam" name="test_skip" time="">
      <skipped type="pytest.skip" message="later">tests/test_spam.py:20: later</skipped>
    </testcase>
    <testcase classname="tests.test_spam" name="test_fixture" time="0.000">
      <error message="failed on setup with &quot;fixture 'db' not found&quot;">fixture 'db' not found</error>
    </testcase>
    <testcase classname="" name="" time="0.0" />
  </testsuite>
</testsuites>`

const noseReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="nosetests" tests="2" errors="0" failures="0" skip="0">
  <testcase classname="test_ham.HamTests" name="test_one" time="0.004"></testcase>
  <testcase classname="test_ham" name="test_two" time="0.001"></testcase>
</testsuite>`

func TestParse_Testsuites(t *testing.T) {
	t.Parallel()

	records, err := Parse(strings.NewReader(pytestReport))
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, Record{ClassName: "tests.test_spam", Name: "test_ok", Status: domain.TestStatusPass, Time: 0.001}, records[0])

	assert.Equal(t, domain.TestStatusFail, records[1].Status)
	assert.Equal(t, "assert 1 == 2", records[1].Message)
	assert.Contains(t, records[1].Traceback, ">       assert 1 == 2")

	assert.Equal(t, domain.TestStatusSkipped, records[3].Status)
	assert.Zero(t, records[3].Time)
	assert.Equal(t, "later", records[3].Message)

	assert.Equal(t, domain.TestStatusError, records[4].Status)
	assert.Equal(t, `failed on setup with "fixture 'db' not found"`, records[4].Message)
}

func TestParse_SingleTestsuite(t *testing.T) {
	t.Parallel()

	records, err := Parse(strings.NewReader(noseReport))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "test_ham.HamTests", records[0].ClassName)
	assert.Equal(t, 0.004, records[0].Time)
	assert.Equal(t, domain.TestStatusPass, records[1].Status)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader(`<testng-results></testng-results>`))
	assert.ErrorIs(t, err, ErrUnexpectedRoot)

	_, err = Parse(strings.NewReader(`<testsuites><testsuite>`))
	assert.Error(t, err)
}

func TestRecord_Qualname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		record Record
		want   string
	}{
		{record: Record{ClassName: "tests.test_spam", Name: "test_ok"}, want: "proj.tests.test_spam.test_ok"},
		{record: Record{ClassName: "tests.test_spam.TestEggs", Name: "test_x[a-b]"}, want: "proj.tests.test_spam.TestEggs.test_x"},
		{record: Record{Name: "test_bare"}, want: "proj.test_bare"},
		{record: Record{ClassName: "m", Name: "[weird]"}, want: "proj.m.[weird]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.record.Qualname("proj"))
	}
}

func TestRecord_Result(t *testing.T) {
	t.Parallel()

	rec := Record{Status: domain.TestStatusFail, Time: 1.5, Message: "m", Traceback: "tb"}

	assert.Equal(t, domain.TestResult{Status: domain.TestStatusFail, Duration: 1.5, Message: "m", Traceback: "tb"}, rec.Result())
}
