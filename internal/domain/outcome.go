package domain

// Route is a navigation target the rendering layer interprets. The
// orchestration core never touches a router; it only declares where the UI
// should go after a mutation settles.
type Route struct {
	Path string
	Back bool // navigate back in history instead of to Path
}

func RouteHome() Route               { return Route{Path: "/"} }
func RouteSignIn() Route             { return Route{Path: "/sign-in"} }
func RouteCommunities() Route        { return Route{Path: "/communities"} }
func RouteCommunity(id string) Route { return Route{Path: "/communities/" + id} }
func RoutePost(id string) Route      { return Route{Path: "/posts/" + id} }
func RoutePrediction(id string) Route {
	return Route{Path: "/predictions/" + id}
}
func RouteBack() Route { return Route{Back: true} }

// Outcome is the typed result of a mutation: the user-facing message that was
// emitted and an optional navigation target for the UI-layer effect.
type Outcome struct {
	Message    string
	NavigateTo *Route
}
