package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText prints doc as aligned plain text for the terminal.
func WriteText(w io.Writer, doc Document) error {
	var buf bytes.Buffer
	for i, s := range doc.Sections {
		if i > 0 {
			buf.WriteByte('\n')
		}
		writeSection(&buf, s)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeSection(buf *bytes.Buffer, s Section) {
	if s.Title != "" {
		buf.WriteString(s.Title + "\n")
	}
	for _, line := range s.Lines {
		buf.WriteString(line + "\n")
	}

	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	for _, f := range s.Fields {
		fmt.Fprintf(tw, "%s\t%s\n", f.Label, f.Value)
	}
	if s.Table != nil {
		fmt.Fprintln(tw, strings.Join(s.Table.Columns, "\t"))
		for _, row := range s.Table.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	// Flushing into a bytes.Buffer cannot fail.
	_ = tw.Flush()
}
