/*
Package domain contains the core models of the travel planner.

It is kept free of I/O so that stores, model clients and the web layer can be
swapped without touching the planning rules.

# Key Entities

  - User: A registered traveller, unique by username.
  - Session: The login flag and username bound to a browser or CLI session.
  - PlannerState: The transcript, city and interests that feed prompt construction.
  - Plan: The rendered outcome of one submission (itinerary, weather, fun fact).
*/
package domain
