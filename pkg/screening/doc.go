/*
Package screening implements the questionnaire state machine.

A Session owns one user's traversal of an immutable domain.QuestionGraph: the current question,
the Qi/Lumin/Rhythm accumulators and the answer history. Navigation never fails. An invalid
question or option index triggers recovery, and a premature end of the graph (before the minimum
session length) is handled by a FallbackPolicy. When the policy has no candidate left the session
completes early, so a pathological graph can never loop forever.

	s, err := screening.New(graph, screening.WithConfig(screening.Config{MinQuestions: 20}))
	if err != nil {
		return err
	}
	for !s.IsComplete() {
		q, _ := s.CurrentQuestion()
		s.Submit(ask(q))
	}
*/
package screening
