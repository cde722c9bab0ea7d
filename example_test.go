package stagewatch_test

import (
	"fmt"

	"github.com/AnatoleLucet/stagewatch"
	"github.com/AnatoleLucet/stagewatch/scene"
)

func ExampleRegisterNotification() {
	r := stagewatch.NewRegistry()
	layer := scene.NewLayer(stagewatch.NewAdapter(), "anon")
	defer layer.Release()

	n, baseline := stagewatch.RegisterNotification(r, func() bool {
		return layer.HasField(scene.AbsoluteRoot, "startTimeCode")
	})
	fmt.Println(baseline)

	_, report, _ := stagewatch.Expect(stagewatch.Tokens(n), func() (any, error) {
		return nil, layer.SetField(scene.AbsoluteRoot, "startTimeCode", 17.0)
	})
	fmt.Println(report.Satisfied())
	fmt.Println(n.State())

	// Output:
	// false
	// true
	// checked
}

func ExamplePassWeak() {
	a := stagewatch.NewAdapter()

	stage := stagewatch.CreateStrong(a, stagewatch.KindStage, "shot", "payload")
	weak := stagewatch.PassWeak(stage)

	v, ok := weak.Get()
	fmt.Println(v, ok)

	stage.Release()

	v, ok = weak.Get()
	fmt.Printf("%q %v\n", v, ok)
	fmt.Println(a.LiveCount())

	// Output:
	// payload true
	// "" false
	// 0
}

func ExampleDeriveChild() {
	a := stagewatch.NewAdapter()

	stage := scene.NewStage(a, "shot")
	root := stage.RootLayer()

	fmt.Println(root.IsValid())
	stage.Release()
	fmt.Println(root.IsValid())

	// Output:
	// true
	// false
}
