package chart

import (
	"fmt"

	"FibScope/internal/model"
)

// fibonacciGrid draws one dashed horizontal line per level across the price
// subplot, each labelled with its ratio at the right edge.
func fibonacciGrid(levels []model.FibonacciLevel, axes AxisSet) ([]Shape, []Annotation) {
	shapes := make([]Shape, 0, len(levels))
	annotations := make([]Annotation, 0, len(levels))
	domain := xRef(axes.Price) + " domain"
	yref := yRef(axes.Price)
	for _, lv := range levels {
		shapes = append(shapes, Shape{
			Type: "line",
			XRef: domain,
			YRef: yref,
			X0:   0,
			X1:   1,
			Y0:   lv.Price,
			Y1:   lv.Price,
			Line: Line{Color: colorFibonacci, Dash: "dash", Width: 1},
		})
		annotations = append(annotations, Annotation{
			Text:    fmt.Sprintf("%.1f%%", lv.Ratio*100),
			X:       1,
			Y:       lv.Price,
			XRef:    domain,
			YRef:    yref,
			XAnchor: "right",
			YAnchor: "bottom",
		})
	}
	return shapes, annotations
}
