package audit

import "strings"

// ActionResource holds action and resource derived from an HTTP route.
type ActionResource struct {
	Action   string
	Resource string
}

// frappeMethodPrefix marks routes kept for clients of the Frappe whitelisted-method URLs.
const frappeMethodPrefix = "/api/method/"

// ParseRoute returns action and resource for an HTTP method and gin route pattern.
//
// Whitelisted-method routes (/api/method/pos_app.apis.login.logout_pos_user) map to the module
// as resource and the function as action ("login", "logout_pos_user"). Other routes map the
// verb to get, create, update, or delete and the path below /api/ to a dotted resource
// (/api/auth/me -> "auth.me"); path parameters are skipped.
func ParseRoute(method, route string) ActionResource {
	if strings.HasPrefix(route, frappeMethodPrefix) {
		dotted := strings.TrimPrefix(route, frappeMethodPrefix)
		dot := strings.LastIndex(dotted, ".")
		if dot < 0 {
			return ActionResource{Action: strings.ToLower(dotted), Resource: "unknown"}
		}
		module := dotted[:dot]
		if i := strings.LastIndex(module, "."); i >= 0 {
			module = module[i+1:]
		}
		return ActionResource{Action: dotted[dot+1:], Resource: module}
	}
	return ActionResource{Action: methodToAction(method), Resource: routeToResource(route)}
}

func routeToResource(route string) string {
	route = strings.TrimPrefix(route, "/api")
	var parts []string
	for _, seg := range strings.Split(route, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, ".")
}

func methodToAction(method string) string {
	switch strings.ToUpper(method) {
	case "GET", "HEAD":
		return "get"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
