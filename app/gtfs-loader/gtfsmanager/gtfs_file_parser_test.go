package gtfsmanager

import (
	"strings"
	"testing"
)

func Test_removeBOMIfPresent(t *testing.T) {
	headers := []string{"\uFEFFroute_id", "route_short_name"}
	removeBOMIfPresent(headers)
	if headers[0] != "route_id" {
		t.Errorf("removeBOMIfPresent() left header %v, want route_id", headers[0])
	}

	clean := []string{"route_id"}
	removeBOMIfPresent(clean)
	if clean[0] != "route_id" {
		t.Errorf("removeBOMIfPresent() altered clean header to %v", clean[0])
	}
}

func Test_findValue(t *testing.T) {
	headers := []string{"route_id", "route_type"}
	records := []string{"22", ""}

	value, err := findValue("route_id", records, headers, false)
	if err != nil || value == nil || *value != "22" {
		t.Errorf("findValue() = %v, %v, want 22", value, err)
	}

	value, err = findValue("missing_column", records, headers, true)
	if err != nil || value != nil {
		t.Errorf("findValue() on absent optional column = %v, %v, want nil, nil", value, err)
	}

	_, err = findValue("missing_column", records, headers, false)
	if err == nil {
		t.Errorf("findValue() on absent required column produced no error, but we want one")
	}

	_, err = findValue("route_type", records, headers, false)
	if err == nil {
		t.Errorf("findValue() on empty required value produced no error, but we want one")
	}
}

func Test_gtfsFileParser_nextLine(t *testing.T) {
	csvContent := "route_id,route_type\n" +
		"1,3\n" +
		"2,3\n"
	parser, err := makeGTFSFileParser(strings.NewReader(csvContent), "routes.txt")
	if err != nil {
		t.Fatalf("Unable to make gtfsFileParser %s", err)
	}

	lines := 0
	for parser.nextLine() == nil {
		lines++
		if parser.getString("route_id", false) == "" {
			t.Errorf("line %v: expected route_id value", lines)
		}
	}
	if lines != 2 {
		t.Errorf("parsed %v lines, want 2", lines)
	}
	if err = parser.getError(); err != nil {
		t.Errorf("unexpected parse errors: %v", err)
	}
}
