/*
Package ports defines the driven ports (interfaces) for the CaloBot engine.

These interfaces decouple the conversation core from external
implementations, allowing the engine to work with different storage
backends and language-model providers.

# Key Interfaces

  - UserStore: persists the user aggregate; its Update method carries the
    transactional read-modify-write contract the daily ledger relies on.
  - Understander: the NLU collaborator (message text -> intent + entities).
  - Generator: the persona text generator (directive -> outward reply).
*/
package ports
