// report.go: Parameter usage statistics and listings
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"fmt"
	"slices"
	"strings"
)

// ReportOptions controls ReportUsageStatistics.
type ReportOptions struct {
	// Section names the part of the run being reported. When empty the
	// report covers the whole run so far.
	Section string
	// ReportUnused appends the parameters nobody read to a whole-run report.
	ReportUnused bool
}

var reportSections = [...]string{"", "(Init)", "(Debug)", "(Init+Dbg)"}

type reportItem struct {
	p     Param
	layer int
	title string
}

func sectionOf(p Param) string {
	i := 0
	if p.IsInit() {
		i |= 1
	}
	if p.IsDebug() {
		i |= 2
	}
	return reportSections[i]
}

// reportOrder sorts by layer, then init parameters first, then non-debug
// before debug, then by name Z to A.
func reportOrder(a, b reportItem) int {
	if a.layer != b.layer {
		return a.layer - b.layer
	}
	if ai, bi := a.p.IsInit(), b.p.IsInit(); ai != bi {
		if ai {
			return -1
		}
		return 1
	}
	if ad, bd := a.p.IsDebug(), b.p.IsDebug(); ad != bd {
		if bd {
			return -1
		}
		return 1
	}
	return CompareNames(b.p.Name(), a.p.Name())
}

// collectReportItems lists every distinct parameter of set with the layer
// it was first seen in, in report order.
func collectReportItems(set *RegistrySet) []reportItem {
	var items []reportItem
	seen := make(map[*paramBase]bool)
	for layer, r := range set.Registries() {
		for _, p := range r.List(AnyParamType) {
			if seen[p.core()] {
				logger().Debug("parameter listed in more than one registry", "param", p.Name(), "registry", r.Title())
				continue
			}
			seen[p.core()] = true
			items = append(items, reportItem{p: p, layer: layer, title: r.Title()})
		}
	}
	slices.SortStableFunc(items, reportOrder)
	return items
}

func usageEntry(it reportItem, writes, reads uint64, unused bool) UsageEntry {
	return UsageEntry{
		Name:     it.p.Name(),
		Category: "(" + it.title + ")",
		Section:  sectionOf(it.p),
		Type:     it.p.Type().String(),
		Value:    it.p.FormattedValue(),
		Writes:   writes,
		Reads:    reads,
		Unused:   unused,
	}
}

func emitUsage(w ReportWriter, e UsageEntry) {
	if uw, ok := w.(UsageEntryWriter); ok {
		uw.WriteUsageEntry(e)
		return
	}
	w.WriteReportInfoLine(e.Line())
}

// ReportUsageStatistics writes which parameters have been relevant.
//
// Without a section the report covers the whole run: access counts are
// folded first and every parameter read at least once is listed, followed
// by the unread ones when opts.ReportUnused is set. With a section only the
// parameters read since the previous report are listed, after which their
// counts are folded so the next section starts from zero.
func ReportUsageStatistics(w ReportWriter, set *RegistrySet, opts ReportOptions) error {
	title := ""
	if opts.Section != "" {
		title = " for section: " + opts.Section
	}
	w.WriteReportHeaderLine(fmt.Sprintf("\n\n%s Parameter Usage Statistics%s: which params have been relevant?\n%s\n\n",
		ApplicationName(), title, strings.Repeat("-", 70)))

	items := collectReportItems(set)

	if opts.Section == "" {
		for _, it := range items {
			it.p.ResetAccessCounts()
		}
		for _, it := range items {
			c := it.p.AccessCounts()
			if c.PrevSumReading > 0 {
				emitUsage(w, usageEntry(it, c.PrevSumWriting, c.PrevSumReading, false))
			}
		}
		if opts.ReportUnused {
			w.WriteInfoLine("\n\nUnused parameters:\n\n")
			for _, it := range items {
				c := it.p.AccessCounts()
				if c.PrevSumReading == 0 {
					emitUsage(w, usageEntry(it, c.PrevSumWriting, c.PrevSumReading, true))
				}
			}
		}
	} else {
		for _, it := range items {
			c := it.p.AccessCounts()
			if c.Reading > 0 {
				emitUsage(w, usageEntry(it, uint64(c.Writing), uint64(c.Reading), false))
			}
		}
		for _, it := range items {
			it.p.ResetAccessCounts()
		}
	}

	return writerErr(w)
}

// PrintParams writes every parameter of set as "name<TAB>value", adding the
// description when withInfo is set. Parameters are ordered by name.
func PrintParams(w ReportWriter, set *RegistrySet, withInfo bool) error {
	items := collectReportItems(set)
	slices.SortStableFunc(items, func(a, b reportItem) int {
		return CompareNames(a.p.Name(), b.p.Name())
	})
	for _, it := range items {
		if withInfo {
			w.WriteParamInfo(it.p)
		} else {
			w.WriteParamValue(it.p)
		}
	}
	return writerErr(w)
}

func writerErr(w ReportWriter) error {
	if ew, ok := w.(interface{ Err() error }); ok {
		return ew.Err()
	}
	return nil
}
