/*
Package qiscreen is a branching screening questionnaire engine with a built-in safety circuit breaker.

A question bank is loaded into an immutable graph. Each session walks the graph, accumulates Qi,
Lumin and rhythm vectors from the chosen options and guarantees a minimum length, repairing
navigation when the bank is malformed. When a session completes, its vectors are normalised into
five breath signals. A threshold table decides whether a Shield (a safety intervention) must
interrupt the user, and a Shield stays presented until the user's breath signals and recorded
actions allow its release. When no Shield is active, everyday guidance is selected from the same
vectors.

# Usage

	ctx := context.Background()
	eng, err := qiscreen.New(ctx, file.New("bank.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	snap, err := eng.StartSession(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for !snap.Complete {
		// Show snap.Question and read the chosen option index.
		_, snap, err = eng.Submit(ctx, snap.ID, 0)
		if err != nil {
			log.Fatal(err)
		}
	}

	a, err := eng.Assess(ctx, snap.ID)
	if err != nil {
		log.Fatal(err)
	}
	if a.Presented != nil {
		g, _ := eng.Guide(ctx, *a.Presented)
		fmt.Println(g.Message)
	}

The evaluators are also usable on their own: see packages breath, shield and guidance.
*/
package qiscreen
