/*
Package domain contains the core domain models for the CaloBot engine.

It defines the user aggregate and its nested documents (profile, diet
settings, daily tracking, conversation state) together with the intent and
entity vocabulary shared with the NLU collaborator. This package is kept
pure and free of I/O or persistence concerns, following Hexagonal
Architecture principles.

# Key Entities

  - User: the per-chat-user aggregate, created on first contact.
  - Profile / DietSettings: onboarding answers and the negotiated target.
  - DailyTracking: the per-day calorie ledger with its rollover invariant.
  - UserState: the single "awaiting" slot driving the onboarding machine.
  - Intent / Entities: the NLU contract vocabulary.
*/
package domain
