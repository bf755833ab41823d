/*
Package shield implements the safety circuit breaker on top of breath signals.

Detection and release are pure functions (Detect, Present, CanRelease). Breaker holds the
session-scoped "presented" shield and Assistant produces the guidance shown with it.

# Shields

  - Shield_1 灵性逃避 (spiritual bypass)
  - Shield_4 意义虚无 (meaning void)
  - Shield_2 模式盲区 (pattern blind spot)
  - Shield_3 边界耗竭 (boundary exhaustion)

The list above is the presentation priority.
*/
package shield
