/*
Package bank loads question banks into an immutable domain.QuestionGraph.

A bank is a mapping of question ID to question record, optionally alongside a metadata key
("_meta" or "metadata") that is stripped before indexing. The list form {"questions": [...]}
is accepted as well. Loading is lenient: malformed records are skipped with a
domain.ValidationWarning, and only an unreadable or structurally invalid root (or a bank with no
valid question at all) is fatal.

	raw, err := bank.Decode(data, bank.FormatYAML)
	if err != nil {
		return err
	}
	graph, err := bank.NewLoader(bank.WithLogger(logger)).Load(raw)
*/
package bank
