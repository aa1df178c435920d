package gate

import "testing"

func TestDecideAdminRoutes(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Decision
	}{
		{name: "anonymous", state: State{}, want: Decision{RedirectTo: "/"}},
		{name: "authenticated non-admin", state: State{Authenticated: true}, want: Decision{RedirectTo: "/"}},
		{name: "subscribed non-admin", state: State{Authenticated: true, Subscribed: true}, want: Decision{RedirectTo: "/"}},
		{name: "admin", state: State{Authenticated: true, Admin: true}, want: Decision{Allow: true}},
	}

	for _, tt := range tests {
		if got := Decide(ClassAdmin, tt.state); got != tt.want {
			t.Fatalf("%s: Decide(ClassAdmin) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestDecideSubscriberRoutes(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Decision
	}{
		{name: "anonymous", state: State{}, want: Decision{RedirectTo: "/login"}},
		{name: "authenticated unsubscribed", state: State{Authenticated: true}, want: Decision{RedirectTo: "/subscription"}},
		{name: "authenticated subscribed", state: State{Authenticated: true, Subscribed: true}, want: Decision{Allow: true}},
		{name: "admin without subscription", state: State{Authenticated: true, Admin: true}, want: Decision{RedirectTo: "/subscription"}},
	}

	for _, tt := range tests {
		if got := Decide(ClassSubscriber, tt.state); got != tt.want {
			t.Fatalf("%s: Decide(ClassSubscriber) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestDecidePublicRoutes(t *testing.T) {
	for _, s := range []State{{}, {Authenticated: true}, {Authenticated: true, Subscribed: true, Admin: true}} {
		if got := Decide(ClassPublic, s); !got.Allow {
			t.Fatalf("Decide(ClassPublic, %+v) = %+v, want allow", s, got)
		}
	}
}
