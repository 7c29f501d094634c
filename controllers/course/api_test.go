package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	lessonModels "lms/models/lesson"
	"lms/routers/authRoutes"
	"lms/routers/courseRoutes"
	"lms/routers/lessonRoutes"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:      "3000",
		JWTKey:    "test-secret-key",
		SaltRound: 4,
		UploadDir: t.TempDir(),
	}

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&courseModels.Course{},
		&courseModels.CourseSection{},
		&courseModels.CourseSignup{},
		&lessonModels.BaseLesson{},
		&lessonModels.LessonCompletion{},
	))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	lessonRoutes.SetupLessonRoutes(app)

	return app, db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password1234"), 4)
	require.NoError(t, err)

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Role:     role,
		Password: string(hashed),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func grantPermission(t *testing.T, db *gorm.DB, userID uint, permission string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Permission{UserID: userID, Permission: permission}).Error)
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func dataField(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response data is not an object: %v", body)
	return data
}

func objectID(t *testing.T, obj map[string]interface{}) uint {
	t.Helper()

	id, ok := obj["ID"].(float64)
	require.True(t, ok, "object has no ID: %v", obj)
	return uint(id)
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "POST", "/auth/register", "", fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password1234",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Same email again
	resp = doRequest(t, app, "POST", "/auth/register", "", fiber.Map{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "password1234",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "password1234",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataField(t, resp)
	assert.NotEmpty(t, data["token"])

	resp = doRequest(t, app, "POST", "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCourseRoutesRequireAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "GET", "/courses/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "PATCH", "/courses/1/reorder-sections", "", fiber.Map{"sections": []uint{}})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/courses/list-assigned", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateCoursePermissionMatrix(t *testing.T) {
	app, db := setupApp(t)

	plain := createUser(t, db, "plain@example.com", "USER")
	editor := createUser(t, db, "editor@example.com", "USER")
	grantPermission(t, db, editor.ID, models.PermCourseAdd)
	admin := createUser(t, db, "admin@example.com", "ADMIN")

	body := fiber.Map{"name": "Go Basics", "description": "intro"}

	resp := doRequest(t, app, "POST", "/courses/", tokenFor(t, plain), body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/courses/", tokenFor(t, editor), body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/courses/", tokenFor(t, admin), body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestReorderSectionsEndpoint(t *testing.T) {
	app, db := setupApp(t)

	admin := createUser(t, db, "admin@example.com", "ADMIN")
	plain := createUser(t, db, "plain@example.com", "USER")
	adminToken := tokenFor(t, admin)

	resp := doRequest(t, app, "POST", "/courses/", adminToken, fiber.Map{"name": "Go Basics"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	courseID := objectID(t, dataField(t, resp))
	coursePath := "/courses/" + uintStr(courseID)

	resp = doRequest(t, app, "POST", coursePath+"/sections", adminToken, fiber.Map{"name": "first"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	s1 := objectID(t, dataField(t, resp))

	resp = doRequest(t, app, "POST", coursePath+"/sections", adminToken, fiber.Map{"name": "second"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	s2 := objectID(t, dataField(t, resp))

	// Swap
	resp = doRequest(t, app, "PATCH", coursePath+"/reorder-sections", adminToken, fiber.Map{
		"sections": []uint{s2, s1},
	})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, "GET", coursePath, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataField(t, resp)
	sections, ok := data["sections"].([]interface{})
	require.True(t, ok)
	require.Len(t, sections, 2)
	assert.Equal(t, s2, objectID(t, sections[0].(map[string]interface{})))
	assert.Equal(t, s1, objectID(t, sections[1].(map[string]interface{})))

	// Partial list is rejected and changes nothing
	resp = doRequest(t, app, "PATCH", coursePath+"/reorder-sections", adminToken, fiber.Map{
		"sections": []uint{s1},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Missing body field
	resp = doRequest(t, app, "PATCH", coursePath+"/reorder-sections", adminToken, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// No course.change permission
	resp = doRequest(t, app, "PATCH", coursePath+"/reorder-sections", tokenFor(t, plain), fiber.Map{
		"sections": []uint{s1, s2},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Wrong method on a known path
	resp = doRequest(t, app, "POST", coursePath+"/reorder-sections", adminToken, fiber.Map{
		"sections": []uint{s1, s2},
	})
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)

	// Unknown course
	resp = doRequest(t, app, "PATCH", "/courses/424242/reorder-sections", adminToken, fiber.Map{
		"sections": []uint{},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReorderSectionsEmptyList(t *testing.T) {
	app, db := setupApp(t)

	admin := createUser(t, db, "admin@example.com", "ADMIN")
	adminToken := tokenFor(t, admin)

	resp := doRequest(t, app, "POST", "/courses/", adminToken, fiber.Map{"name": "Empty Course"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	courseID := objectID(t, dataField(t, resp))
	coursePath := "/courses/" + uintStr(courseID)

	// Valid while the course has no sections
	resp = doRequest(t, app, "PATCH", coursePath+"/reorder-sections", adminToken, fiber.Map{
		"sections": []uint{},
	})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, "POST", coursePath+"/sections", adminToken, fiber.Map{"name": "first"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Invalid once sections exist
	resp = doRequest(t, app, "PATCH", coursePath+"/reorder-sections", adminToken, fiber.Map{
		"sections": []uint{},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSignupAndRetrieveAssigned(t *testing.T) {
	app, db := setupApp(t)

	admin := createUser(t, db, "admin@example.com", "ADMIN")
	student := createUser(t, db, "student@example.com", "USER")
	adminToken := tokenFor(t, admin)
	studentToken := tokenFor(t, student)

	resp := doRequest(t, app, "POST", "/courses/", adminToken, fiber.Map{"name": "Test Course"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	courseID := objectID(t, dataField(t, resp))
	coursePath := "/courses/" + uintStr(courseID)

	resp = doRequest(t, app, "POST", coursePath+"/sections", adminToken, fiber.Map{"name": "test section"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sectionID := objectID(t, dataField(t, resp))

	resp = doRequest(t, app, "POST", "/sections/"+uintStr(sectionID)+"/lessons", adminToken, fiber.Map{
		"name": "test_lesson",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	lessonID := objectID(t, dataField(t, resp))

	// Not signed up yet: the course is invisible
	resp = doRequest(t, app, "GET", coursePath+"/retrieve-assigned", studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Completing a lesson needs a signup too
	resp = doRequest(t, app, "POST", "/lessons/"+uintStr(lessonID)+"/complete", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/course-signups/", studentToken, fiber.Map{"course": courseID})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Second signup is rejected with a nonFieldErrors body
	resp = doRequest(t, app, "POST", "/course-signups/", studentToken, fiber.Map{"course": courseID})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	data := dataField(t, resp)
	nonField, ok := data["nonFieldErrors"].([]interface{})
	require.True(t, ok)
	require.Len(t, nonField, 1)
	assert.Equal(t, "Already signed up for this course.", nonField[0])

	resp = doRequest(t, app, "GET", coursePath+"/retrieve-assigned", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = dataField(t, resp)
	assert.Equal(t, "Test Course", data["name"])
	sections, ok := data["sections"].([]interface{})
	require.True(t, ok)
	require.Len(t, sections, 1)
	section := sections[0].(map[string]interface{})
	assert.Equal(t, "test section", section["name"])
	lessons, ok := section["lessons"].([]interface{})
	require.True(t, ok)
	require.Len(t, lessons, 1)
	lesson := lessons[0].(map[string]interface{})
	assert.Equal(t, "test_lesson", lesson["name"])
	assert.Equal(t, false, lesson["isComplete"])

	resp = doRequest(t, app, "POST", "/lessons/"+uintStr(lessonID)+"/complete", studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "GET", coursePath+"/retrieve-assigned", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = dataField(t, resp)
	lesson = data["sections"].([]interface{})[0].(map[string]interface{})["lessons"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, lesson["isComplete"])

	// list-assigned shows the signed-up course only for its viewer
	resp = doRequest(t, app, "GET", "/courses/list-assigned", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = dataField(t, resp)
	results, ok := data["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)

	other := createUser(t, db, "other@example.com", "USER")
	resp = doRequest(t, app, "GET", "/courses/list-assigned", tokenFor(t, other), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = dataField(t, resp)
	results, _ = data["results"].([]interface{})
	assert.Empty(t, results)
}

func TestReorderLessonsEndpoint(t *testing.T) {
	app, db := setupApp(t)

	admin := createUser(t, db, "admin@example.com", "ADMIN")
	adminToken := tokenFor(t, admin)

	resp := doRequest(t, app, "POST", "/courses/", adminToken, fiber.Map{"name": "Test Course"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	courseID := objectID(t, dataField(t, resp))

	resp = doRequest(t, app, "POST", "/courses/"+uintStr(courseID)+"/sections", adminToken, fiber.Map{"name": "s"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sectionID := objectID(t, dataField(t, resp))
	sectionPath := "/sections/" + uintStr(sectionID)

	resp = doRequest(t, app, "POST", sectionPath+"/lessons", adminToken, fiber.Map{"name": "a", "type": "LESSON"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	l1 := objectID(t, dataField(t, resp))

	resp = doRequest(t, app, "POST", sectionPath+"/lessons", adminToken, fiber.Map{"name": "b", "type": "EXERCISE"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	l2 := objectID(t, dataField(t, resp))

	resp = doRequest(t, app, "PATCH", sectionPath+"/reorder-lessons", adminToken, fiber.Map{
		"lessons": []uint{l2, l1},
	})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, "GET", sectionPath+"/lessons", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataField(t, resp)
	lessons, ok := data["lessons"].([]interface{})
	require.True(t, ok)
	require.Len(t, lessons, 2)
	assert.Equal(t, l2, objectID(t, lessons[0].(map[string]interface{})))
	assert.Equal(t, l1, objectID(t, lessons[1].(map[string]interface{})))

	// A duplicated id is rejected
	resp = doRequest(t, app, "PATCH", sectionPath+"/reorder-lessons", adminToken, fiber.Map{
		"lessons": []uint{l1, l1},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUnknownLessonTypeRejected(t *testing.T) {
	app, db := setupApp(t)

	admin := createUser(t, db, "admin@example.com", "ADMIN")
	adminToken := tokenFor(t, admin)

	resp := doRequest(t, app, "POST", "/courses/", adminToken, fiber.Map{"name": "Test Course"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	courseID := objectID(t, dataField(t, resp))

	resp = doRequest(t, app, "POST", "/courses/"+uintStr(courseID)+"/sections", adminToken, fiber.Map{"name": "s"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sectionID := objectID(t, dataField(t, resp))

	resp = doRequest(t, app, "POST", "/sections/"+uintStr(sectionID)+"/lessons", adminToken, fiber.Map{
		"name": "quiz",
		"type": "QUIZ",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func uintStr(v uint) string {
	return strconv.Itoa(int(v))
}
