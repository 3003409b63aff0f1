package config

// BuiltinApps returns the built-in application table.
//
// Users can replace it with their own apps list; the list is replaced as a
// whole, never merged entry by entry.
func BuiltinApps() []App {
	return []App{
		{ID: "splashScreen", Title: "Start FelloWS OS", Desktop: true},
		{ID: "prdIntro", Title: "About the PRD", Desktop: true, StartMenu: true},
		{ID: "vision", Title: "1. Executive Summary", Desktop: true, StartMenu: true},
		{ID: "productVision", Title: "2. Product Vision", Desktop: true, StartMenu: true},
		{ID: "users", Title: "3. Users & Personas", Desktop: true, StartMenu: true},
		{ID: "journeys", Title: "4. User Journeys", Desktop: true, StartMenu: true},
		{ID: "features", Title: "5. Features", Desktop: true, StartMenu: true},
		{ID: "technology", Title: "6. Technology", Desktop: true, StartMenu: true},
		{ID: "design", Title: "7. UI Design", Desktop: true, StartMenu: true},
		{ID: "content", Title: "8. Content", Desktop: true, StartMenu: true},
		{ID: "privacy", Title: "9. Privacy", Desktop: true, StartMenu: true},
		{ID: "impact", Title: "10. Analytics", Desktop: true, StartMenu: true},
		{ID: "roadmap", Title: "11. Roadmap", Desktop: true, StartMenu: true},
		{ID: "risks", Title: "12. Risks", Desktop: true, StartMenu: true},
		{ID: "future", Title: "13. Future", Desktop: true, StartMenu: true},
		{ID: "appendices", Title: "14. Appendices", Desktop: true, StartMenu: true},
	}
}
