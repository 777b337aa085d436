// Package assert evaluates casebook expectations against a diagnosis report.
package assert

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/haidx/internal/domain"
)

// Diagnosis compares the expected label (an infection or "none") with the result.
func Diagnosis(expected string, got domain.Diagnosis) domain.AssertionResult {
	if strings.EqualFold(expected, domain.NoneLabel) {
		expected = domain.NoneLabel
	}
	if got.Label() == expected {
		return domain.AssertionResult{
			Name:    "diagnosis",
			Passed:  true,
			Message: fmt.Sprintf("diagnosis %s", expected),
		}
	}
	return domain.AssertionResult{
		Name:    "diagnosis",
		Passed:  false,
		Message: fmt.Sprintf("expected diagnosis %s, got %s", expected, got.Label()),
	}
}

// Evaluate applies an expectation to a report. JSONPath expressions run
// against the report's JSON encoding, in sorted expression order.
func Evaluate(expect domain.Expectation, report domain.DiagnosisReport) []domain.AssertionResult {
	var out []domain.AssertionResult

	if strings.TrimSpace(expect.Diagnosis) != "" {
		out = append(out, Diagnosis(expect.Diagnosis, report.Diagnosis))
	}

	if len(expect.JSONPath) == 0 {
		return out
	}

	exprs := make([]string, 0, len(expect.JSONPath))
	for expr := range expect.JSONPath {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	doc, err := reportDocument(report)
	if err != nil {
		for _, expr := range exprs {
			out = append(out, jsonPathChecks(expr, expect.JSONPath[expr], nil,
				fmt.Errorf("report is not valid JSON: %v", err))...)
		}
		return out
	}

	for _, expr := range exprs {
		val, getErr := jsonpath.Get(expr, doc)
		out = append(out, jsonPathChecks(expr, expect.JSONPath[expr], val, getErr)...)
	}

	return out
}

func jsonPathChecks(expr string, a domain.JSONPathAssertion, val any, getErr error) []domain.AssertionResult {
	var out []domain.AssertionResult
	if a.Exists {
		out = append(out, checkExists(expr, val, getErr))
	}
	if a.Eq != nil {
		want := *a.Eq
		out = append(out, checkString("jsonpath.eq", expr, val, getErr, func(s string) (bool, string) {
			if s == want {
				return true, fmt.Sprintf("jsonpath %q eq %q", expr, want)
			}
			return false, fmt.Sprintf("jsonpath %q: expected %q, got %q", expr, want, s)
		}))
	}
	if a.Contains != nil {
		sub := *a.Contains
		out = append(out, checkString("jsonpath.contains", expr, val, getErr, func(s string) (bool, string) {
			if strings.Contains(s, sub) {
				return true, fmt.Sprintf("jsonpath %q contains %q", expr, sub)
			}
			return false, fmt.Sprintf("jsonpath %q: %q does not contain %q", expr, s, sub)
		}))
	}
	if a.Matches != nil {
		pattern := *a.Matches
		out = append(out, checkString("jsonpath.matches", expr, val, getErr, func(s string) (bool, string) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false, fmt.Sprintf("jsonpath %q: invalid regex %q: %v", expr, pattern, err)
			}
			if re.MatchString(s) {
				return true, fmt.Sprintf("jsonpath %q matches %q", expr, pattern)
			}
			return false, fmt.Sprintf("jsonpath %q: %q does not match %q", expr, s, pattern)
		}))
	}
	if a.Gt != nil {
		threshold := *a.Gt
		out = append(out, checkNumber("jsonpath.gt", expr, val, getErr, func(f float64) (bool, string) {
			if f > threshold {
				return true, fmt.Sprintf("jsonpath %q: %v > %v", expr, f, threshold)
			}
			return false, fmt.Sprintf("jsonpath %q: expected > %v, got %v", expr, threshold, f)
		}))
	}
	if a.Lt != nil {
		threshold := *a.Lt
		out = append(out, checkNumber("jsonpath.lt", expr, val, getErr, func(f float64) (bool, string) {
			if f < threshold {
				return true, fmt.Sprintf("jsonpath %q: %v < %v", expr, f, threshold)
			}
			return false, fmt.Sprintf("jsonpath %q: expected < %v, got %v", expr, threshold, f)
		}))
	}
	return out
}

func checkExists(expr string, val any, getErr error) domain.AssertionResult {
	if getErr != nil {
		return fail("jsonpath.exists", fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	if isEmptyJSONPathValue(val) {
		return fail("jsonpath.exists", fmt.Sprintf("jsonpath %q: expected value to exist, got empty", expr))
	}
	return domain.AssertionResult{
		Name:    "jsonpath.exists",
		Passed:  true,
		Message: fmt.Sprintf("jsonpath %q exists", expr),
	}
}

func checkString(name, expr string, val any, getErr error, check func(string) (bool, string)) domain.AssertionResult {
	if getErr != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	s, err := jsonPathToString(val)
	if err != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, err))
	}
	ok, msg := check(s)
	return domain.AssertionResult{Name: name, Passed: ok, Message: msg}
}

func checkNumber(name, expr string, val any, getErr error, check func(float64) (bool, string)) domain.AssertionResult {
	if getErr != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	f, err := jsonPathToFloat64(val)
	if err != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, err))
	}
	ok, msg := check(f)
	return domain.AssertionResult{Name: name, Passed: ok, Message: msg}
}

func fail(name, msg string) domain.AssertionResult {
	return domain.AssertionResult{Name: name, Passed: false, Message: msg}
}

func jsonPathToString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return fmt.Sprint(v), nil
	}
}

func jsonPathToFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	case []any:
		// lengths are the useful number for symptom lists
		return float64(len(v)), nil
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
}

func reportDocument(report domain.DiagnosisReport) (any, error) {
	b, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyJSONPathValue(v any) bool {
	if v == nil {
		return true
	}

	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
