package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/statext/statext/internal/session"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one batch run.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one session.
type JUnitTestCase struct {
	XMLName    xml.Name        `xml:"testcase"`
	Name       string          `xml:"name,attr"`
	Classname  string          `xml:"classname,attr"`
	Time       float64         `xml:"time,attr"`
	Failure    *JUnitFailure   `xml:"failure,omitempty"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
}

// JUnitFailure represents an exhausted session.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts batch results to JUnit XML, one testcase per
// session. Exhausted sessions become failures carrying the final attempt's
// detail.
func ConvertToJUnit(suiteName string, results []*session.Result) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      suiteName,
		Tests:     len(results),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	var totalMs int64
	for _, r := range results {
		totalMs += r.DurationMs
		tc := JUnitTestCase{
			Name:      r.TaskName,
			Classname: suiteName,
			Time:      float64(r.DurationMs) / 1000.0,
			Properties: []JUnitProperty{
				{Name: "attempts", Value: fmt.Sprintf("%d", len(r.Attempts))},
				{Name: "session_id", Value: r.SessionID},
			},
		}
		if r.Status != session.StatusSucceeded {
			suite.Failures++
			tc.Failure = buildFailure(r)
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	suite.Time = float64(totalMs) / 1000.0

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Time:       suite.Time,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func buildFailure(r *session.Result) *JUnitFailure {
	f := &JUnitFailure{
		Message: InterpretStatus(r),
		Type:    string(r.Reason),
	}
	if last := lastAttempt(r); last != nil {
		f.Body = outcomeDetail(last.Outcome)
	}
	return f
}

// WriteJUnitFile renders the suites as an XML file.
func WriteJUnitFile(path, suiteName string, results []*session.Result) error {
	suites := ConvertToJUnit(suiteName, results)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing JUnit file: %w", err)
	}
	return nil
}
