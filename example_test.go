package qiscreen_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/qiscreen"
	"github.com/aretw0/qiscreen/pkg/dsl"
	"github.com/aretw0/qiscreen/pkg/screening"
)

// ExampleNew_memory demonstrates a session over a bank built in Go instead of a file.
// This is useful for testing, embedded scenarios, or generated banks.
func ExampleNew_memory() {
	// 1. Define the bank with the DSL.
	b := dsl.New()
	b.Add("q1").
		Text("此刻你最先注意到什么？").
		Option("一切都很清楚", map[string]float64{
			"厚载": 1, "炎明": 1, "通透": 1, "静守": 1,
			"视": 1, "听": 1, "触": 1, "味": 0.5, "嗅": 0.5,
			"涵育": 1,
		}).End()
	src, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize the engine; a one-question bank needs a lower minimum.
	ctx := context.Background()
	engine, err := qiscreen.New(ctx, src, qiscreen.WithSessionConfig(screening.Config{MinQuestions: 1}))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Answer and assess.
	snap, err := engine.StartSession(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(snap.Question.ID, snap.Question.Text)

	outcome, snap, err := engine.Submit(ctx, snap.ID, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("completed:", outcome == screening.Completed, snap.Complete)

	a, err := engine.Assess(ctx, snap.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("shield:", a.Presented != nil)
	fmt.Println("rhythm:", a.Rhythm)

	// Output:
	// q1 此刻你最先注意到什么？
	// completed: true true
	// shield: false
	// rhythm: 涵育
}
