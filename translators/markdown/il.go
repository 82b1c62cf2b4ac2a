package markdown

import (
	"strings"

	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// ilWriter renders one IL element as a listing line.
type ilWriter struct {
	line string
}

func (w *ilWriter) VisitInstruction(i *model.Instruction) error {
	line := metadata.Label(i.Offset) + ": " + i.OpCode
	if i.Operand != "" {
		line += " " + i.Operand
	}
	w.line = line
	return nil
}

func (w *ilWriter) VisitExceptionRegion(e *model.ExceptionRegionMarker) error {
	if e.Edge == model.EdgeLeave {
		w.line = "} // end " + string(e.Region)
		return nil
	}
	head := "." + string(e.Region)
	if e.CatchType != nil {
		head += " " + e.CatchType.FullName()
	}
	w.line = head + " {"
	return nil
}

func (w *ilWriter) VisitRegionBoundary(r *model.RegionBoundaryMarker) error {
	w.line = strings.TrimSpace(r.Label) + ":"
	return nil
}
