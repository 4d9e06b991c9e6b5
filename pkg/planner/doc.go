/*
Package planner drafts a day-trip plan for a city.

A submission flows through the same steps every time:

	state := planner.InputCity(city, domain.NewPlannerState())
	state = planner.InputInterests(raw, state)
	itinerary  -> model call, Markdown rendered to HTML
	weather    -> WeatherProvider, never fails (fallback strings)
	fun fact   -> model call
	record     -> InteractionRecorder

Plan runs all of it. The individual steps are exported so the CLI and the MCP
server can call them on their own.
*/
package planner
