/*
Package tripplanner drafts day-trip itineraries for a city.

A traveller registers with a username, email and mobile number, logs in, and
submits a city plus comma-separated interests. The planner asks a language
model for an itinerary and a fun fact, looks up the current weather, records
the interaction in an append-only log and renders the three blocks together.

# Architecture

The module follows a hexagonal layout. Core packages never import adapters:

  - pkg/domain: users, sessions, planner state, plans, lifecycle hooks and sentinel errors.
  - pkg/ports: the interfaces adapters implement, plus reusable contract test suites.
  - pkg/accounts, pkg/session, pkg/planner: the use cases.
  - pkg/adapters/...: JSON file, SQLite and Redis storage, Groq and Gemini models,
    the weatherapi.com client, the HTTP UI/API and the MCP server.

internal/app wires everything from internal/config, and cmd/tripplanner
exposes it as a CLI (serve, plan, register, login, users, weather, mcp).

# Usage

	tripplanner register --username alice --email alice@example.com --mobile 555
	tripplanner plan --city Ahmedabad --interests "Food, Culture, Adventure"
	tripplanner serve --port 8080

Credentials come from the environment (GROQ_API_KEY, GEMINI_API_KEY,
WEATHER_API_KEY), optionally via a .env file, or from a YAML config file.
*/
package tripplanner
