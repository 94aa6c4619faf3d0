package tests

import (
	"net/http"
	"testing"
	"time"

	echoapi "github.com/trezcool/hesabu/apps/api/echo"
	"github.com/trezcool/hesabu/core/problem"
)

func Test_problemApi_create(t *testing.T) {
	db.Reset()

	usr := createUser(t, "zahra", "zahra@test.cd", "supersecret")
	token := getToken(t, usr)

	tests := []httpTest{
		{name: "Auth required", body: []byte(`{}`), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: token, body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":      "this field is required",
				"equation":   "this field is required",
				"difficulty": "this field is required",
			}),
		},
		{
			name:  "unknown difficulty",
			token: token,
			body: marchallObj(t, problem.NewProblem{
				Title: "Klein group", Equation: "(Z2 x Z2, +)", Difficulty: "Legendary",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"difficulty": "difficulty must be one of [Easy Medium Hard]",
			}),
		},
		{
			name:  "cannot file under another account",
			token: token,
			body: marchallObj(t, problem.NewProblem{
				UserEmail: "other@test.cd", Title: "Klein group", Equation: "(Z2 x Z2, +)", Difficulty: problem.DifficultyEasy,
			}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "permission denied"}),
		},
		{
			name:  "easy awards 5",
			token: token,
			body: marchallObj(t, problem.NewProblem{
				Title: "Klein group", Equation: "(Z2 x Z2, +)", Difficulty: problem.DifficultyEasy,
			}),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, httpErr{Message: "Problem added! +5 points."}),
		},
		{
			name:  "medium awards 10",
			token: token,
			body: marchallObj(t, problem.NewProblem{
				UserEmail: usr.Email, Title: "Quotient ring", Equation: "Z[x]/(x^2+1)", Difficulty: problem.DifficultyMedium,
			}),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, httpErr{Message: "Problem added! +10 points."}),
		},
		{
			name:  "hard awards 20",
			token: token,
			body: marchallObj(t, problem.NewProblem{
				Title: "Galois group", Equation: "Gal(Q(w)/Q)", Difficulty: problem.DifficultyHard,
			}),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, httpErr{Message: "Problem added! +20 points."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/problems"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// creation points add up on the owner's account
	usr, err := usrSvc.GetByEmail(usr.Email)
	if err != nil {
		t.Fatalf("GetByEmail(): %v", err)
	}
	if usr.Points != 35 {
		t.Errorf("points = %v; want 35", usr.Points)
	}
}

func Test_problemApi_query(t *testing.T) {
	db.Reset()

	usr := createUser(t, "zahra", "zahra@test.cd", "supersecret")
	other := createUser(t, "imani", "imani@test.cd", "supersecret")

	now := time.Now().UTC()
	prb1 := createProblem(t, problem.Problem{
		ID: "p1001", UserEmail: usr.Email, Title: "Klein group", Equation: "(Z2 x Z2, +)",
		Difficulty: problem.DifficultyEasy, CreatedAt: now,
	})
	prb2 := createProblem(t, problem.Problem{
		ID: "p1002", UserEmail: usr.Email, Title: "Quotient ring", Equation: "Z[x]/(x^2+1)",
		Difficulty: problem.DifficultyHard, CreatedAt: now,
	})

	tests := []httpTest{
		{name: "owner's problems", path: "/api/problems/" + usr.Email, wantCode: http.StatusOK, wantData: marchallList(t, prb1, prb2)},
		{name: "no problems", path: "/api/problems/" + other.Email, wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "unknown owner", path: "/api/problems/who@test.cd", wantCode: http.StatusOK, wantData: marchallList(t)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_problemApi_destroy(t *testing.T) {
	db.Reset()

	usr := createUser(t, "zahra", "zahra@test.cd", "supersecret")
	other := createUser(t, "imani", "imani@test.cd", "supersecret")

	now := time.Now().UTC()
	prb := createProblem(t, problem.Problem{
		ID: "p1001", UserEmail: usr.Email, Title: "Klein group", Equation: "(Z2 x Z2, +)",
		Difficulty: problem.DifficultyEasy, CreatedAt: now,
	})
	kept := createProblem(t, problem.Problem{
		ID: "p1002", UserEmail: usr.Email, Title: "Quotient ring", Equation: "Z[x]/(x^2+1)",
		Difficulty: problem.DifficultyHard, CreatedAt: now,
	})

	tests := []httpTest{
		{name: "Auth required", path: "/api/problems/" + prb.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "someone else's problem", path: "/api/problems/" + prb.ID, token: getToken(t, other),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Problem not found."}),
		},
		{
			name: "unknown id", path: "/api/problems/p404", token: getToken(t, usr),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Problem not found."}),
		},
		{
			name: "deleted", path: "/api/problems/" + prb.ID, token: getToken(t, usr),
			wantCode: http.StatusOK, wantData: marchallObj(t, httpErr{Message: "Problem deleted."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the deleted problem is gone from the owner's listing, the other stays
	t.Run("gone from listings", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, kept)}
		req, rec := newRequest(http.MethodGet, "/api/problems/"+usr.Email)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_problemApi_solve(t *testing.T) {
	db.Reset()

	usr := createUser(t, "zahra", "zahra@test.cd", "supersecret")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "acknowledged", token: getToken(t, usr), wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.SolveResponse{Success: true, Result: "Problem marked as reviewed."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/solve-problem/p123"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
