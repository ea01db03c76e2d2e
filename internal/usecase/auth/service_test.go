package auth

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
	"github.com/meetflow-app/meetflow/pkg/jwt"
)

func newTestService() (Service, *jwt.Manager) {
	jwtManager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	svc := NewService(jwtManager, clock.New(), Options{}, nil)
	return svc, jwtManager
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtManager := newTestService()
	ctx := context.Background()

	reg := svc.Register(ctx, "Sarah Chen", "sarah@example.com", "hunter22")
	if !reg.Success {
		t.Fatalf("Register failed: %s", reg.Error)
	}
	if reg.User == nil || reg.User.Provider != entities.AuthProviderLocal {
		t.Error("Expected a local-provider user")
	}
	if reg.AccessToken == "" || reg.RefreshToken == "" {
		t.Fatal("Expected a token pair")
	}

	claims, err := jwtManager.ValidateAccessToken(reg.AccessToken)
	if err != nil {
		t.Fatalf("Access token did not validate: %v", err)
	}
	if claims.Email != "sarah@example.com" {
		t.Errorf("Expected claims email sarah@example.com, got %s", claims.Email)
	}

	login := svc.Login(ctx, "sarah@example.com", "hunter22")
	if !login.Success {
		t.Fatalf("Login failed: %s", login.Error)
	}
	if login.User.ID != reg.User.ID {
		t.Error("Expected login to resolve the registered user")
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if reg := svc.Register(ctx, "Mike", "Mike@Example.COM", "password1"); !reg.Success {
		t.Fatalf("Register failed: %s", reg.Error)
	}

	login := svc.Login(ctx, "  mike@example.com ", "password1")
	if !login.Success {
		t.Fatalf("Expected case-insensitive login to succeed: %s", login.Error)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if reg := svc.Register(ctx, "Emma", "emma@example.com", "correct-horse"); !reg.Success {
		t.Fatalf("Register failed: %s", reg.Error)
	}

	if login := svc.Login(ctx, "emma@example.com", "wrong"); login.Success {
		t.Fatal("Expected login with wrong password to fail")
	}
	if login := svc.Login(ctx, "nobody@example.com", "whatever"); login.Success {
		t.Fatal("Expected login for unknown email to fail")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if reg := svc.Register(ctx, "First", "dup@example.com", "password1"); !reg.Success {
		t.Fatalf("Register failed: %s", reg.Error)
	}
	if reg := svc.Register(ctx, "Second", "dup@example.com", "password2"); reg.Success {
		t.Fatal("Expected duplicate registration to fail")
	}
}

func TestForgotPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if reg := svc.Register(ctx, "Sarah", "sarah@example.com", "password1"); !reg.Success {
		t.Fatalf("Register failed: %s", reg.Error)
	}

	result := svc.ForgotPassword(ctx, "sarah@example.com")
	if !result.Success {
		t.Fatalf("ForgotPassword failed: %s", result.Error)
	}
	if result.Message == "" {
		t.Error("Expected a confirmation message")
	}

	if result := svc.ForgotPassword(ctx, "ghost@example.com"); result.Success {
		t.Fatal("Expected forgot password for unknown user to fail")
	}
}

func TestSocialLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result := svc.SocialLogin(ctx, "google")
	if !result.Success {
		t.Fatalf("SocialLogin failed: %s", result.Error)
	}
	if result.User.Provider != entities.AuthProviderGoogle {
		t.Errorf("Expected google provider, got %s", result.User.Provider)
	}

	// A second login with the same provider resolves the same account.
	again := svc.SocialLogin(ctx, "google")
	if !again.Success || again.User.ID != result.User.ID {
		t.Error("Expected repeated social login to reuse the account")
	}

	if result := svc.SocialLogin(ctx, "myspace"); result.Success {
		t.Fatal("Expected unknown provider to fail")
	}
}

func TestSimulatedLatencyRespectsContext(t *testing.T) {
	jwtManager := jwt.NewManager("a", "r", time.Minute, time.Hour)
	svc := NewService(jwtManager, clock.New(), Options{SimulatedLatency: time.Hour}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result := svc.Login(ctx, "x@example.com", "pw")
	if result.Success {
		t.Fatal("Expected login to fail when the context expires")
	}
	if result.Error == "" {
		t.Error("Expected a context error to be reported")
	}
}
