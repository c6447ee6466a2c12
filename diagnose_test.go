// emoji-win - use Apple color emoji fonts on Windows
// Copyright (C) 2026  The emoji-win authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package emojiwin

import (
	"path/filepath"
	"testing"
)

func TestDiagnoseSource(t *testing.T) {
	src := writeFont(t, nil)

	report, err := Diagnose(src)
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Fatal("unconverted font passed all checks")
	}

	failed := make(map[string]bool)
	for _, c := range report.Failed() {
		failed[c.Name] = true
	}
	for _, want := range []string{
		"strike sizes",
		"Windows BMP character map",
		"outline tables",
		"family name",
		"typo metrics flag",
	} {
		if !failed[want] {
			t.Errorf("check %q did not fail for the unconverted font", want)
		}
	}
	for _, notWant := range []string{
		"sfnt container",
		"color bitmap atlas",
		"units per em",
	} {
		if failed[notWant] {
			t.Errorf("check %q failed unexpectedly", notWant)
		}
	}
}

func TestDiagnoseConverted(t *testing.T) {
	src := writeFont(t, nil)
	out := filepath.Join(t.TempDir(), "out.ttf")
	if _, err := Convert(src, out); err != nil {
		t.Fatal(err)
	}

	report, err := Diagnose(out)
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Errorf("converted font failed checks: %v", report.Failed())
	}
}
