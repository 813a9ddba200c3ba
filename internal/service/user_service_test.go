package service

import (
	"testing"

	"github.com/bolbazaar/catalog-api/internal/models"
	"github.com/bolbazaar/catalog-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(repo *testutil.MockUserRepo) *UserService {
	return &UserService{
		Cfg:  testutil.TestConfig(),
		Repo: repo,
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.CreateUser("ramukaka", "Ramu", "ramu@example.com", "Password1!")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user == nil {
		t.Fatal("CreateUser returned nil user")
	}
	if user.Username != "ramukaka" {
		t.Errorf("Username = %q, want 'ramukaka'", user.Username)
	}
	if user.Email != "ramu@example.com" {
		t.Errorf("Email = %q", user.Email)
	}
	if user.Auth == nil {
		t.Fatal("Auth should not be nil")
	}
	if user.Auth.AuthType != models.Standard {
		t.Errorf("AuthType = %q, want 'standard'", user.Auth.AuthType)
	}
	// Verify password was hashed
	err = bcrypt.CompareHashAndPassword([]byte(user.Auth.HashedPassword), []byte("Password1!"))
	if err != nil {
		t.Error("Password was not correctly hashed")
	}
	// Verify default settings
	if user.Settings == nil || !user.Settings.AutoDescribe {
		t.Error("Default AutoDescribe should be true")
	}
	if user.Settings != nil && user.Settings.PreferredLanguage != "en" {
		t.Errorf("Default PreferredLanguage = %q, want 'en'", user.Settings.PreferredLanguage)
	}
}

func TestCreateUser_RepoError(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	repo.CreateUserErr = errTest
	svc := newTestUserService(repo)

	_, err := svc.CreateUser("ramukaka", "Ramu", "ramu@example.com", "Password1!")
	if err == nil {
		t.Fatal("CreateUser should return error when repo fails")
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	// Create a user first
	hashedPwd, _ := bcrypt.GenerateFromPassword([]byte("Password1!"), 10)
	user := &models.User{
		Username: "ramukaka",
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPwd),
			AuthType:       models.Standard,
		},
		Settings: &models.UserSettings{PreferredLanguage: "en", AutoDescribe: true},
	}
	repo.CreateUser(user)

	got, err := svc.LoginUser("ramukaka", "Password1!")
	if err != nil {
		t.Fatalf("LoginUser error: %v", err)
	}
	if got.Username != "ramukaka" {
		t.Errorf("Username = %q", got.Username)
	}
}

func TestLoginUser_WrongPassword(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	hashedPwd, _ := bcrypt.GenerateFromPassword([]byte("Password1!"), 10)
	repo.CreateUser(&models.User{
		Username: "ramukaka",
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPwd),
			AuthType:       models.Standard,
		},
	})

	_, err := svc.LoginUser("ramukaka", "WrongPassword1!")
	if err == nil {
		t.Fatal("LoginUser should fail with wrong password")
	}
}

func TestLoginUser_UnknownUser(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.LoginUser("nobody", "Password1!")
	if err == nil {
		t.Fatal("LoginUser should fail for unknown user")
	}
}

func TestValidateUsername(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	tests := []struct {
		username string
		wantErr  bool
	}{
		{"ramukaka", false},
		{"Seller42", false},
		{"ab", true},           // too short
		{"has space", true},    // not alphanumeric
		{"has-dash", true},     // not alphanumeric
		{"admin", true},        // forbidden
		{"bolbazaar", true},    // forbidden
		{"BolBazaar", true},    // forbidden, case-insensitive
	}

	for _, tt := range tests {
		err := svc.ValidateUsername(tt.username)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
		}
	}
}

func TestValidateUsername_AlreadyTaken(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	repo.CreateUser(&models.User{Username: "ramukaka"})
	svc := newTestUserService(repo)

	if err := svc.ValidateUsername("ramukaka"); err == nil {
		t.Error("ValidateUsername should reject a taken username")
	}
	if err := svc.ValidateUsername("RAMUKAKA"); err == nil {
		t.Error("ValidateUsername should reject a taken username case-insensitively")
	}
}

func TestValidateEmail(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())

	if err := svc.ValidateEmail("ramu@example.com"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	if err := svc.ValidateEmail("not-an-email"); err == nil {
		t.Error("invalid email accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())

	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Password1!", false},
		{"short1!", true},      // too short
		{"password1!", true},   // no uppercase
		{"PASSWORD1!", true},   // no lowercase
		{"Password!!", true},   // no digit
		{"Password11", true},   // no special char
	}

	for _, tt := range tests {
		err := svc.ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestUpdateSettings_UnsupportedLanguage(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)
	user := testutil.TestUser()
	repo.CreateUser(user)

	if err := svc.UpdateSettings(user, "xx", true); err == nil {
		t.Error("UpdateSettings should reject unsupported language")
	}
	if err := svc.UpdateSettings(user, "hi", false); err != nil {
		t.Errorf("UpdateSettings error: %v", err)
	}
	if user.Settings.PreferredLanguage != "hi" {
		t.Errorf("PreferredLanguage = %q, want 'hi'", user.Settings.PreferredLanguage)
	}
	if user.Settings.AutoDescribe {
		t.Error("AutoDescribe should be false")
	}
}

func TestToUserResponse(t *testing.T) {
	user := testutil.TestUser()

	resp := ToUserResponse(user)
	if resp.ID != "1" {
		t.Errorf("ID = %q, want '1'", resp.ID)
	}
	if resp.Username != "ramukaka" {
		t.Errorf("Username = %q", resp.Username)
	}
	if resp.Settings.PreferredLanguage != "en" {
		t.Errorf("PreferredLanguage = %q", resp.Settings.PreferredLanguage)
	}
	if !resp.Settings.AutoDescribe {
		t.Error("AutoDescribe should be true")
	}
}

// errTest is a shared test error for convenience.
var errTest = errTestType{}

type errTestType struct{}

func (e errTestType) Error() string { return "test error" }
