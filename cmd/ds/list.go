// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	appexec "github.com/dosomething/ds/internal/app/execute"
	"github.com/dosomething/ds/internal/registry"
	"github.com/dosomething/ds/pkg/dsfile"
)

// renderListing prints every runnable row grouped by the document that
// defines it, documents in precedence order. Default environments and
// aliases are shown in parentheses.
func renderListing(w io.Writer, loaded *appexec.Loaded) {
	rows := loaded.Registry.Rows()
	byDoc := make(map[*dsfile.Document][]registry.Row)
	width := 0
	for _, r := range rows {
		byDoc[r.Document] = append(byDoc[r.Document], r)
		width = max(width, len(r.Display()))
	}

	first := true
	for _, doc := range loaded.Registry.Documents() {
		docRows := byDoc[doc]
		if len(docRows) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintln(w, TitleStyle.Render(doc.Path))
		for _, r := range docRows {
			display := r.Display()
			pad := strings.Repeat(" ", width-len(display))
			fmt.Fprintf(w, "  %s%s  %s\n", CmdStyle.Render(display), pad, listingDetail(r))
		}
	}
}

func listingDetail(r registry.Row) string {
	var label string
	switch {
	case r.Name != "" && r.Description != "":
		label = r.Name + ": " + r.Description
	case r.Name != "":
		label = r.Name
	default:
		label = r.Description
	}
	if label == "" {
		return SubtitleStyle.Render(r.Command)
	}
	return label + " " + SubtitleStyle.Render("("+r.Command+")")
}
