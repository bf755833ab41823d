/*
Package domain contains the core domain models of the qiscreen questionnaire engine.

It defines the question graph walked by a screening session, the accumulator vectors a session
builds from the user's choices, and the derived safety signals (Breath, Shield) evaluated on top of
them. This package is kept pure and free of I/O, following the Hexagonal Architecture of the rest
of the module.

# Key Entities

  - Question / QuestionGraph: the immutable, deterministically ordered question graph.
  - QiVector / LuminVector / RhythmVector: additive accumulators owned by one session.
  - Breath: five derived signals in [0,1], recomputed on demand.
  - ShieldID / UserActions: safety interventions and the remediation a user recorded.
*/
package domain
