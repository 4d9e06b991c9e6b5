/*
Package ports defines the driven ports (interfaces) of the travel planner.

These interfaces decouple the planning and account rules from storage backends
and third-party APIs.

# Key Interfaces

  - UserStore: Persists the insertion-ordered user table (JSON file, SQLite, memory).
  - SessionStore: Persists login sessions (memory, file, Redis).
  - DistributedLocker: Coordinates session writes across replicas.
  - ChatModel: Sends a prompt to a language model and returns its text.
  - WeatherProvider: Looks up current conditions for a city.
  - InteractionRecorder: Appends one audit entry per plan.
*/
package ports
