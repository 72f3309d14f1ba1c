package printers

import (
	"context"
	"io"

	"github.com/hokaccha/go-prettyjson"
	"github.com/turbot/bqpipe/internal/sanitize"
	"github.com/turbot/bqpipe/internal/types"
)

type JsonPrinter struct {
	Sanitizer *sanitize.Sanitizer
}

func (p JsonPrinter) PrintResource(_ context.Context, r types.PrintableResource, writer io.Writer) error {
	s, err := prettyjson.Marshal(r.GetItems(p.Sanitizer))
	if err != nil {
		return err
	}
	_, err = writer.Write(append(s, '\n'))
	return err
}
