package faculty

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/timetable"
)

var (
	// errors
	ErrNotFound          = errors.New("faculty profile not found")
	ErrNoTimetable       = errors.New("no timetable data found")
	ErrTimetableNotSaved = errors.New("timetable not saved")

	cleanString = core.CleanString
	nowFunc     = time.Now // mockable
)

const icsContentType = "text/calendar; charset=utf-8"

type (
	Repository interface {
		GetProfile(ctx context.Context, userID string) (Profile, error)
		// SaveProfile merges the profile fields and the timetable into the stored profile (creating it if needed)
		// and resets SignupCompleted.
		SaveProfile(ctx context.Context, p Profile) (Profile, error)
		CompleteSignup(ctx context.Context, userID string, at time.Time) (Profile, error)
		DeleteProfile(ctx context.Context, userID string) error
	}

	// CalendarWriter writes a timetable as an iCalendar document.
	CalendarWriter interface {
		WriteICS(w io.Writer, ownerID string, tt *timetable.Timetable) error
	}

	Service interface {
		Preview(input string) (*timetable.Timetable, error)
		Get(ctx context.Context, userID string) (Profile, error)
		Save(ctx context.Context, prn core.Principal, sp SaveProfile) (Profile, error)
		Complete(ctx context.Context, prn core.Principal) (Profile, error)
		Timetable(ctx context.Context, userID string) (*timetable.Timetable, error)
		Classes(ctx context.Context, userID string) (timetable.ClassList, error)
		Calendar(ctx context.Context, userID string) ([]byte, error)
	}

	service struct {
		repo       Repository
		mailSvc    core.EmailService
		calendar   CalendarWriter
		logger     core.Logger
		parserOpts []timetable.Option
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	mailSvc core.EmailService,
	calendar CalendarWriter,
	logger core.Logger,
	conf *core.Config,
) Service {
	return newService(repo, mailSvc, calendar, logger, conf)
}

func newService(
	repo Repository,
	mailSvc core.EmailService,
	calendar CalendarWriter,
	logger core.Logger,
	conf *core.Config,
) *service {
	svc := &service{
		repo:     repo,
		mailSvc:  mailSvc,
		calendar: calendar,
		logger:   logger,
	}
	if conf.Timetable.CheckRowLabels {
		svc.parserOpts = append(svc.parserOpts, timetable.WithRowLabelCheck())
	}
	return svc
}

// Preview parses the pasted text without saving it.
func (svc *service) Preview(input string) (*timetable.Timetable, error) {
	return timetable.Parse(input, svc.parserOpts...)
}

func (svc *service) Get(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfile(ctx, userID)
}

// Save parses the timetable and stores it with the profile fields.
// Nothing is saved when the timetable cannot be parsed.
func (svc *service) Save(ctx context.Context, prn core.Principal, sp SaveProfile) (Profile, error) {
	tt, err := timetable.Parse(sp.Timetable, svc.parserOpts...)
	if err != nil {
		return Profile{}, core.NewFieldValidationError("timetable", err)
	}

	p := sp.profile(prn.ID)
	if p.Email == "" {
		p.Email = cleanString(prn.Email, true /* lower */)
	}
	p.Timetable = tt
	p.UpdatedAt = nowFunc().UTC()

	p, err = svc.repo.SaveProfile(ctx, p)
	if err != nil {
		return Profile{}, errors.Wrap(err, "saving profile")
	}
	return p, nil
}

// Complete marks the signup as completed and mails the timetable summary.
func (svc *service) Complete(ctx context.Context, prn core.Principal) (Profile, error) {
	p, err := svc.repo.GetProfile(ctx, prn.ID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Profile{}, core.NewValidationError(ErrTimetableNotSaved)
		}
		return Profile{}, errors.Wrap(err, "getting profile")
	}
	if !p.HasTimetable() {
		return Profile{}, core.NewValidationError(ErrTimetableNotSaved)
	}

	p, err = svc.repo.CompleteSignup(ctx, prn.ID, nowFunc().UTC())
	if err != nil {
		return Profile{}, errors.Wrap(err, "completing signup")
	}

	svc.sendSignupCompletedMail(p, prn)
	return p, nil
}

func (svc *service) Timetable(ctx context.Context, userID string) (*timetable.Timetable, error) {
	p, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, ErrNoTimetable
		}
		return nil, errors.Wrap(err, "getting profile")
	}
	if p.Timetable == nil {
		return nil, ErrNoTimetable
	}
	return p.Timetable, nil
}

func (svc *service) Classes(ctx context.Context, userID string) (timetable.ClassList, error) {
	tt, err := svc.Timetable(ctx, userID)
	if err != nil {
		return timetable.ClassList{}, err
	}
	return timetable.Classes(tt), nil
}

// Calendar returns the user's timetable as an iCalendar document.
func (svc *service) Calendar(ctx context.Context, userID string) ([]byte, error) {
	tt, err := svc.Timetable(ctx, userID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = svc.calendar.WriteICS(&buf, userID, tt); err != nil {
		return nil, errors.Wrap(err, "writing calendar")
	}
	return buf.Bytes(), nil
}

func (svc *service) signupCompletedMail(p Profile, prn core.Principal) *core.EmailMessage {
	email := p.Email
	if email == "" {
		email = prn.Email
	}
	if email == "" {
		return nil
	}

	data := signupMailData{
		Name:        p.Name,
		Days:        len(p.Timetable.Days),
		TheorySlots: len(p.Timetable.TheorySlots),
		LabSlots:    len(p.Timetable.LabSlots),
		Classes:     p.Timetable.ClassCount(),
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: p.Name, Address: email}},
		Subject:      "Your timetable is set up",
		TemplateName: "signup_completed",
	}

	if svc.calendar != nil {
		var buf bytes.Buffer
		if err := svc.calendar.WriteICS(&buf, p.UserID, p.Timetable); err != nil {
			svc.logger.Error(fmt.Sprintf("writing calendar attachment: %v", err), err, prn)
		} else if err = msg.Attach(&buf, "timetable.ics", icsContentType); err != nil {
			svc.logger.Error(fmt.Sprintf("attaching calendar: %v", err), err, prn)
		} else {
			data.HasCalendar = true
		}
	}
	msg.TemplateData = data
	return msg
}

func (svc *service) sendSignupCompletedMail(p Profile, prn core.Principal) {
	if msg := svc.signupCompletedMail(p, prn); msg != nil {
		svc.mailSvc.SendMessages(msg)
	}
}
