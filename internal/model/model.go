package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTeacher   Role = "teacher"
	RoleStudent   Role = "student"
	RoleSupport   Role = "support"
	RoleTemporary Role = "temporary"
)

// StaffRoles are the roles included in payroll runs.
var StaffRoles = []Role{RoleTeacher, RoleAdmin, RoleSupport}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleSupport, RoleTemporary:
		return true
	default:
		return false
	}
}

// User is the identity record. The password field holds a bcrypt digest,
// never the plaintext, and is excluded from every JSON response.
type User struct {
	ID           bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	Username     string            `bson:"username" json:"username"`
	Email        string            `bson:"email" json:"email"`
	PasswordHash string            `bson:"password" json:"-"`
	FirstName    string            `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string            `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Role         Role              `bson:"role" json:"role"`
	IsActive     bool              `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time        `bson:"last_login,omitempty" json:"last_login,omitempty"`
	Department   string            `bson:"department,omitempty" json:"department,omitempty"`
	ContactInfo  map[string]string `bson:"contact_info,omitempty" json:"contact_info,omitempty"`
	Salary       float64           `bson:"salary,omitempty" json:"salary,omitempty"`
	CreatedAt    time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `bson:"updated_at" json:"updated_at"`
}

type Profile struct {
	ID                bson.ObjectID       `bson:"_id,omitempty" json:"id"`
	UserID            bson.ObjectID       `bson:"user_id" json:"user_id"`
	PhoneNumber       string              `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	Address           string              `bson:"address,omitempty" json:"address,omitempty"`
	DateOfBirth       *time.Time          `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	ProfilePicture    string              `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	EmergencyContacts []map[string]string `bson:"emergency_contacts,omitempty" json:"emergency_contacts,omitempty"`
}

type Transaction struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          bson.ObjectID `bson:"user_id" json:"user_id"`
	Amount          float64       `bson:"amount" json:"amount"`
	TransactionType string        `bson:"transaction_type" json:"transaction_type"`
	Description     string        `bson:"description" json:"description"`
	Date            time.Time     `bson:"date" json:"date"`
	Category        string        `bson:"category" json:"category"`
	PaymentMethod   string        `bson:"payment_method" json:"payment_method"`
	Status          string        `bson:"status" json:"status"`
	InvoiceNumber   string        `bson:"invoice_number,omitempty" json:"invoice_number,omitempty"`
}

type InventoryItem struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string        `bson:"name" json:"name"`
	Category      string        `bson:"category" json:"category"`
	Quantity      int           `bson:"quantity" json:"quantity"`
	UnitPrice     float64       `bson:"unit_price" json:"unit_price"`
	TotalValue    float64       `bson:"total_value" json:"total_value"`
	ReorderPoint  int           `bson:"reorder_point" json:"reorder_point"`
	Supplier      string        `bson:"supplier,omitempty" json:"supplier,omitempty"`
	LastRestocked *time.Time    `bson:"last_restocked,omitempty" json:"last_restocked,omitempty"`
}

type Book struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string        `bson:"title" json:"title"`
	Author          string        `bson:"author" json:"author"`
	ISBN            string        `bson:"isbn" json:"isbn"`
	Category        string        `bson:"category" json:"category"`
	AvailableCopies int           `bson:"available_copies" json:"available_copies"`
	TotalCopies     int           `bson:"total_copies" json:"total_copies"`
	DownloadLink    string        `bson:"download_link,omitempty" json:"download_link,omitempty"`
	Publisher       string        `bson:"publisher,omitempty" json:"publisher,omitempty"`
	IsBorrowed      bool          `bson:"is_borrowed" json:"is_borrowed"`
}

type Message struct {
	ID           bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	SenderID     bson.ObjectID   `bson:"sender_id" json:"sender_id"`
	Recipients   []bson.ObjectID `bson:"recipients" json:"recipients"`
	Subject      string          `bson:"subject" json:"subject"`
	Body         string          `bson:"body" json:"body"`
	Channel      string          `bson:"channel" json:"channel"`
	SentAt       time.Time       `bson:"sent_at" json:"sent_at"`
	Status       string          `bson:"status" json:"status"`
	TemplateUsed string          `bson:"template_used,omitempty" json:"template_used,omitempty"`
}

type Bus struct {
	ID                 bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string        `bson:"name" json:"name"`
	Number             string        `bson:"number" json:"number"`
	Capacity           int           `bson:"capacity" json:"capacity"`
	DriverID           bson.ObjectID `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	CurrentRouteID     bson.ObjectID `bson:"current_route_id,omitempty" json:"current_route_id,omitempty"`
	Status             string        `bson:"status" json:"status"`
	LastMaintenance    *time.Time    `bson:"last_maintenance,omitempty" json:"last_maintenance,omitempty"`
	NextMaintenanceDue *time.Time    `bson:"next_maintenance_due,omitempty" json:"next_maintenance_due,omitempty"`
}

type BusRoute struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string        `bson:"name" json:"name"`
	Stops         []string      `bson:"stops" json:"stops"`
	AssignedBusID bson.ObjectID `bson:"assigned_bus_id,omitempty" json:"assigned_bus_id,omitempty"`
	TotalStudents int           `bson:"total_students_route" json:"total_students_route"`
}

type Course struct {
	ID         bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string          `bson:"name" json:"name"`
	Code       string          `bson:"code" json:"code"`
	Department string          `bson:"department" json:"department"`
	TeacherID  bson.ObjectID   `bson:"teacher_id,omitempty" json:"teacher_id,omitempty"`
	Students   []bson.ObjectID `bson:"students,omitempty" json:"students,omitempty"`
	Credits    int             `bson:"credits" json:"credits"`
	Semester   string          `bson:"semester" json:"semester"`
}

type Timetable struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Grade     string        `bson:"grade" json:"grade"`
	DayOfWeek int           `bson:"day_of_week" json:"day_of_week"`
	StartTime string        `bson:"start_time" json:"start_time"`
	EndTime   string        `bson:"end_time" json:"end_time"`
	CourseID  bson.ObjectID `bson:"course_id" json:"course_id"`
	Room      string        `bson:"room" json:"room"`
	TeacherID bson.ObjectID `bson:"teacher_id,omitempty" json:"teacher_id,omitempty"`
}

type SystemLog struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time     `bson:"timestamp" json:"timestamp"`
	Severity  string        `bson:"severity" json:"severity"`
	Component string        `bson:"component" json:"component"`
	Message   string        `bson:"message" json:"message"`
	UserID    bson.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
}

type LogoutRecord struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     bson.ObjectID `bson:"user_id" json:"user_id"`
	LogoutTime time.Time     `bson:"logout_time" json:"logout_time"`
}

// DashboardMetrics is the assembled summary returned by /dashboard/metrics.
type DashboardMetrics struct {
	TotalStudents       int64            `json:"total_students"`
	StaffDistribution   map[string]int64 `json:"staff_distribution"`
	TotalCourses        int64            `json:"total_courses"`
	TotalRevenue        float64          `json:"total_revenue"`
	UnreadNotifications int64            `json:"unread_notifications"`
	UnreadMessages      int64            `json:"unread_messages"`
}

type FinancialSummary struct {
	TotalIncome   float64 `json:"total_income" bson:"total_income"`
	TotalExpenses float64 `json:"total_expenses" bson:"total_expenses"`
}
