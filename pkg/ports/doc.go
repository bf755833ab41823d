/*
Package ports defines the driven ports (interfaces) of the qiscreen engine.

These interfaces decouple the screening core from the places question banks come from and from
the optional text-generation collaborator used by the shield assistant.

# Key Interfaces

  - BankSource: Produces the raw, decoded question bank tree (e.g., from a file or memory).
  - Watchable: Signals that a bank source changed and should be reloaded.
  - TextGenerator: Turns a prompt into free text. The core never parses the result.
*/
package ports
