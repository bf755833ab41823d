/*
Package dsl provides a Go DSL for programmatically constructing question banks.

It is the typed alternative to a YAML or JSON bank file, useful for generated banks,
unit tests and examples. Option effects are keyed by dimension name and checked when the
bank is built.

Example usage:

	b := dsl.New()

	b.Add("q1").
		Text("此刻你最先注意到什么？").
		Option("呼吸", map[string]float64{"静守": 1, "触": 1}).Go("q2").
		Option("声音", map[string]float64{"听": 1}).End()

	b.Add("q2").
		Stage(2).
		Text("抬头看看四周。").
		Option("看见了", map[string]float64{"视": 2, "通透": 1}).End()

	src, err := b.Build()
	if err != nil {
		return err
	}
	engine, err := qiscreen.New(ctx, src)
*/
package dsl
