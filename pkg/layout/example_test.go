package layout_test

import (
	"fmt"

	"github.com/planstack/floorplan/pkg/layout"
)

func ExampleUnmarshal() {
	doc := `{
		"layout_name": "Open Space A1",
		"canvas_size": {"width": 900, "height": 600},
		"objects": [
			{"id": "desk_1", "type": "Desk", "x": 120, "y": 80, "width": 50, "height": 50}
		],
		"metadata": {"author": "maria", "created_at": "2024-11-05T14:48:00Z", "description": ""}
	}`

	l, err := layout.Unmarshal([]byte(doc))
	if err != nil {
		fmt.Println("parse failed:", err)
		return
	}

	fmt.Println(l.Name)
	fmt.Println("objects:", len(l.Objects))
	fmt.Println("rotation default:", l.Objects[0].Rotation)
	// Output:
	// Open Space A1
	// objects: 1
	// rotation default: 0
}

func ExampleMarshal() {
	l := layout.New("Corner Office", 300, 200)
	_ = l.AddObject(layout.Object{ID: "desk_1", Type: "Desk", X: 40, Y: 40, Width: 120, Height: 60})

	data, err := layout.Marshal(l)
	if err != nil {
		fmt.Println("serialize failed:", err)
		return
	}
	fmt.Println(len(data) > 0)
	// Output:
	// true
}
