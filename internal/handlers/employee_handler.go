package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/centerapp/backend/internal/mailer"
	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/notify"
	"github.com/centerapp/backend/internal/realtime"
	"github.com/centerapp/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// EmployeeHandler handles HTTP requests for the employee directory
type EmployeeHandler struct {
	employeeRepository repositories.EmployeeRepository
	userRepository     repositories.UserRepository
	bus                *realtime.Bus
	notifier           *notify.Service
	mail               *mailer.Mailer
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(
	employeeRepo repositories.EmployeeRepository,
	userRepo repositories.UserRepository,
	bus *realtime.Bus,
	notifier *notify.Service,
	mail *mailer.Mailer,
) *EmployeeHandler {
	return &EmployeeHandler{
		employeeRepository: employeeRepo,
		userRepository:     userRepo,
		bus:                bus,
		notifier:           notifier,
		mail:               mail,
	}
}

// RegisterEmployeeRoutes registers employee-related routes
func (h *EmployeeHandler) RegisterEmployeeRoutes(g *echo.Group) {
	g.POST("/employees", h.CreateEmployee)
	g.GET("/employees", h.GetEmployees)
	g.GET("/employees/:id", h.GetEmployee)
	g.PUT("/employees/:id", h.UpdateEmployee)
	g.DELETE("/employees/:id", h.DeleteEmployee)
}

// CreateEmployee adds a directory entry and fans the news out to admins. The
// directory write is synchronous; the admin notifications, targeted events
// and emails run in the background.
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.employeeRepository.GetEmployeeByEmail(req.Email)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Employee with this email already exists")
	}

	department := req.Department
	if department == "" {
		department = "IT"
	}

	employee := &models.Employee{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		Department: department,
		FaceImage:  req.FaceImage,
		Status:     "offline",
		LastSeen:   time.Now(),
	}

	if err := h.employeeRepository.CreateEmployee(employee); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.Background().Go("employee-admin-fanout", func(ctx context.Context) {
		h.fanOutToAdmins(ctx, employee)
	})

	return c.JSON(http.StatusCreated, employee)
}

// fanOutToAdmins gives every admin a durable notification, a targeted live
// event and an email about the new directory entry.
func (h *EmployeeHandler) fanOutToAdmins(ctx context.Context, employee *models.Employee) {
	admins, err := h.userRepository.GetAdmins()
	if err != nil {
		log.Printf("loading admins for employee fan-out: %v", err)
		return
	}

	event := realtime.New(realtime.KindNewEmployee, map[string]any{
		"employee": employee,
	})

	for _, admin := range admins {
		if _, err := h.notifier.Notify(
			admin.ID,
			models.NotificationTypeEmployeeCreated,
			"New employee",
			fmt.Sprintf("%s joined the %s department", employee.Name, employee.Department),
			map[string]any{"employeeId": employee.ID},
		); err != nil {
			log.Printf("notifying admin %d about employee %d: %v", admin.ID, employee.ID, err)
			continue
		}

		h.bus.SendToUser(admin.ID, event)

		html := fmt.Sprintf("<p><strong>%s</strong> was added to the employee directory (%s, %s).</p>",
			employee.Name, employee.Role, employee.Department)
		if err := h.mail.Send(ctx, admin.Email, "New employee added", html); err != nil {
			log.Printf("emailing admin %s about employee %d: %v", admin.Email, employee.ID, err)
		}
	}
}

// GetEmployees lists all directory entries
func (h *EmployeeHandler) GetEmployees(c echo.Context) error {
	employees, err := h.employeeRepository.GetEmployees()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"employees": employees})
}

// GetEmployee retrieves an employee by ID
func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid employee ID")
	}

	employee, err := h.employeeRepository.GetEmployeeByID(uint(employeeID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, employee)
}

// UpdateEmployee updates a directory entry
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid employee ID")
	}

	var req models.UpdateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	employee, err := h.employeeRepository.GetEmployeeByID(uint(employeeID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Name != "" {
		employee.Name = req.Name
	}
	if req.Phone != "" {
		employee.Phone = req.Phone
	}
	if req.Role != "" {
		employee.Role = req.Role
	}
	if req.Department != "" {
		employee.Department = req.Department
	}
	if req.Status != "" {
		employee.Status = req.Status
		employee.LastSeen = time.Now()
	}

	if err := h.employeeRepository.UpdateEmployee(employee); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes a directory entry
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid employee ID")
	}

	if _, err := h.employeeRepository.GetEmployeeByID(uint(employeeID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.employeeRepository.DeleteEmployee(uint(employeeID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
