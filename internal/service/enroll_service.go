package service

import (
	"context"
	"fmt"
	"time"

	"github.com/codemasterspro/cmpro-bot/internal/model"
	"go.uber.org/zap"
)

// StudentStore доступ к студентам
type StudentStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error)
	Create(ctx context.Context, student *model.Student) error
	UpdateProfile(ctx context.Context, id int64, fullName, phone string) error
	UpdateLanguage(ctx context.Context, id int64, lang model.Language) error
}

// DirectionStore доступ к направлениям
type DirectionStore interface {
	GetAllActive(ctx context.Context) ([]*model.Direction, error)
	GetByCode(ctx context.Context, code model.DirectionCode) (*model.Direction, error)
}

// EnrollmentStore доступ к заявкам
type EnrollmentStore interface {
	CreateIfNoActive(ctx context.Context, studentID, directionID int64) (*model.Enrollment, bool, error)
	GetByID(ctx context.Context, id int64) (*model.Enrollment, error)
	GetPending(ctx context.Context, limit, offset int) ([]*model.Enrollment, error)
	CountPending(ctx context.Context) (int, error)
	UpdateStatusFromPending(ctx context.Context, id int64, status model.EnrollmentStatus) (bool, error)
}

// ReminderScheduler планирует напоминание об оплате
type ReminderScheduler interface {
	Create(ctx context.Context, reminder *model.PaymentReminder) error
}

// Первое напоминание об оплате приходит через месяц после одобрения заявки
const paymentDueAfter = 30 * 24 * time.Hour

type EnrollService struct {
	students    StudentStore
	directions  DirectionStore
	enrollments EnrollmentStore
	reminders   ReminderScheduler
	logger      *zap.Logger
	now         func() time.Time
}

func NewEnrollService(
	students StudentStore,
	directions DirectionStore,
	enrollments EnrollmentStore,
	reminders ReminderScheduler,
	logger *zap.Logger,
) *EnrollService {
	return &EnrollService{
		students:    students,
		directions:  directions,
		enrollments: enrollments,
		reminders:   reminders,
		logger:      logger,
		now:         time.Now,
	}
}

// GetOrCreateStudent находит студента по Telegram ID или создаёт нового
func (s *EnrollService) GetOrCreateStudent(ctx context.Context, telegramID int64, lang model.Language) (*model.Student, error) {
	student, err := s.students.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	if student != nil {
		return student, nil
	}

	student = &model.Student{
		TelegramID: telegramID,
		Lang:       lang,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info("Student created",
		zap.Int64("student_id", student.ID),
		zap.Int64("telegram_id", telegramID))

	return student, nil
}

// ActiveDirections возвращает активные направления
func (s *EnrollService) ActiveDirections(ctx context.Context) ([]*model.Direction, error) {
	return s.directions.GetAllActive(ctx)
}

// Enroll создаёт заявку на направление. Обновляет профиль студента данными
// из диалога. Возвращает ErrAlreadyEnrolled, если по этому направлению уже
// есть заявка в статусе pending или approved.
func (s *EnrollService) Enroll(ctx context.Context, telegramID int64, fullName, phone string, lang model.Language, code model.DirectionCode) (*model.Enrollment, error) {
	direction, err := s.directions.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get direction: %w", err)
	}
	if direction == nil {
		return nil, ErrDirectionNotFound
	}

	student, err := s.GetOrCreateStudent(ctx, telegramID, lang)
	if err != nil {
		return nil, err
	}

	if fullName != "" || phone != "" {
		if err := s.students.UpdateProfile(ctx, student.ID, fullName, phone); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}

	enrollment, created, err := s.enrollments.CreateIfNoActive(ctx, student.ID, direction.ID)
	if err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	if !created {
		return nil, ErrAlreadyEnrolled
	}

	s.logger.Info("Enrollment created",
		zap.Int64("enrollment_id", enrollment.ID),
		zap.Int64("student_id", student.ID),
		zap.String("direction", string(code)))

	enrollment.Student = student
	enrollment.Direction = direction
	return enrollment, nil
}

// PendingPage возвращает страницу pending заявок и общее количество страниц.
// Страницы нумеруются с нуля.
func (s *EnrollService) PendingPage(ctx context.Context, page, pageSize int) ([]*model.Enrollment, int, error) {
	total, err := s.enrollments.CountPending(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count pending: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	enrollments, err := s.enrollments.GetPending(ctx, pageSize, page*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("get pending page: %w", err)
	}

	return enrollments, totalPages, nil
}

// Approve одобряет заявку. Возвращает changed=false, если заявка уже была
// рассмотрена (повторное нажатие не должно слать уведомления).
func (s *EnrollService) Approve(ctx context.Context, enrollmentID int64) (*model.Enrollment, bool, error) {
	return s.decide(ctx, enrollmentID, model.EnrollmentStatusApproved)
}

// Reject отклоняет заявку
func (s *EnrollService) Reject(ctx context.Context, enrollmentID int64) (*model.Enrollment, bool, error) {
	return s.decide(ctx, enrollmentID, model.EnrollmentStatusRejected)
}

func (s *EnrollService) decide(ctx context.Context, enrollmentID int64, status model.EnrollmentStatus) (*model.Enrollment, bool, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, false, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, false, ErrEnrollmentNotFound
	}

	changed, err := s.enrollments.UpdateStatusFromPending(ctx, enrollmentID, status)
	if err != nil {
		return nil, false, fmt.Errorf("update status: %w", err)
	}

	if changed {
		enrollment.Status = status
		s.logger.Info("Enrollment status updated",
			zap.Int64("enrollment_id", enrollmentID),
			zap.String("status", string(status)))

		if status == model.EnrollmentStatusApproved {
			s.schedulePaymentReminder(ctx, enrollment.StudentID)
		}
	}

	return enrollment, changed, nil
}

// schedulePaymentReminder создаёт напоминание об оплате для одобренного
// студента. Решение по заявке уже применено, поэтому сбой планирования
// логируется, но не поднимается.
func (s *EnrollService) schedulePaymentReminder(ctx context.Context, studentID int64) {
	reminder := &model.PaymentReminder{
		StudentID: studentID,
		DueAt:     s.now().Add(paymentDueAfter),
		Status:    model.ReminderStatusPending,
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		s.logger.Error("Failed to schedule payment reminder",
			zap.Int64("student_id", studentID),
			zap.Error(err))
		return
	}

	s.logger.Info("Payment reminder scheduled",
		zap.Int64("reminder_id", reminder.ID),
		zap.Int64("student_id", studentID),
		zap.Time("due_at", reminder.DueAt))
}

// ChangeLanguage сохраняет язык студента
func (s *EnrollService) ChangeLanguage(ctx context.Context, telegramID int64, lang model.Language) error {
	student, err := s.GetOrCreateStudent(ctx, telegramID, lang)
	if err != nil {
		return err
	}

	if student.Lang == lang {
		return nil
	}

	if err := s.students.UpdateLanguage(ctx, student.ID, lang); err != nil {
		return fmt.Errorf("change language: %w", err)
	}

	return nil
}

// StudentLanguage возвращает сохранённый язык студента, если он есть
func (s *EnrollService) StudentLanguage(ctx context.Context, telegramID int64) (model.Language, bool, error) {
	student, err := s.students.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return "", false, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return "", false, nil
	}
	return student.Lang, true, nil
}
