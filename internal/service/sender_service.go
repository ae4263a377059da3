package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"parkinglot/internal/entities"
	"parkinglot/internal/logging"
	"parkinglot/internal/repository"
	"parkinglot/internal/templates"
)

const (
	statusConfirmed = "confirmed"
	statusCancelled = "cancelled"
)

// Notifier tells a car's owner about changes to their reservation.
// Implementations must not block the caller.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, userID int64, view entities.ReservationResponse)
	ReservationCancelled(ctx context.Context, userID int64, view entities.ReservationResponse)
}

// SenderService notifies by e-mail and SMS. Either sender may be disabled.
type SenderService struct {
	users repository.UserRepository
	email EmailSender
	sms   SMSSender

	wg sync.WaitGroup
}

func NewSenderService(users repository.UserRepository, email EmailSender, sms SMSSender) *SenderService {
	return &SenderService{users: users, email: email, sms: sms}
}

func (s *SenderService) ReservationConfirmed(ctx context.Context, userID int64, view entities.ReservationResponse) {
	s.dispatch(ctx, userID, view, statusConfirmed)
}

func (s *SenderService) ReservationCancelled(ctx context.Context, userID int64, view entities.ReservationResponse) {
	s.dispatch(ctx, userID, view, statusCancelled)
}

func (s *SenderService) dispatch(ctx context.Context, userID int64, view entities.ReservationResponse, status string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.notify(ctx, userID, view, status)
	}()
}

// Wait blocks until every in-flight notification has finished or ctx is done.
func (s *SenderService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SenderService) notify(ctx context.Context, userID int64, view entities.ReservationResponse, status string) {
	log := logging.FromContext(ctx).With().Int64("user_id", userID).Int64("car_id", view.CarID).Str("status", status).Logger()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("notification: user lookup failed")
		return
	}
	if user == nil {
		log.Warn().Msg("notification: user not found")
		return
	}

	if user.Email != "" {
		subject, plain, html, err := renderReservationEmail(user.Account, view, status)
		if err != nil {
			log.Error().Err(err).Msg("notification: render email")
		} else if err := s.email.SendEmail(ctx, user.Email, user.Account, subject, plain, html); err != nil {
			logSendError(log, err, "email")
		}
	}

	if user.Phone != "" {
		if err := s.sms.SendSMS(ctx, user.Phone, reservationSMS(view, status)); err != nil {
			logSendError(log, err, "sms")
		}
	}
}

func renderReservationEmail(userName string, view entities.ReservationResponse, status string) (subject, plain, html string, err error) {
	data := entities.ReservationEmailData{
		UserName:          userName,
		CarLicense:        view.CarLicense,
		ParkingLotName:    view.ParkingLotName,
		AreaName:          view.AreaName,
		AreaFloor:         view.AreaFloor,
		ParkingSpotNumber: view.ParkingSpotNumber,
		ReservationTime:   view.ReservationTime,
		ExpiredTime:       view.ExpiredTime,
		Status:            status,
		CurrentYear:       time.Now().Year(),
	}

	subject = fmt.Sprintf("Your ParkingLot reservation is %s - %s", status, view.CarLicense)
	plain = fmt.Sprintf(
		"Hello %s,\n\nYour reservation is %s.\n\n"+
			"Car: %s\n"+
			"Parking lot: %s\n"+
			"Area: %s (floor %d)\n"+
			"Spot: #%d\n"+
			"Reserved at: %s\n"+
			"Expires at: %s\n",
		data.UserName, status, data.CarLicense, data.ParkingLotName, data.AreaName, data.AreaFloor,
		data.ParkingSpotNumber, data.ReservationTime, data.ExpiredTime,
	)

	var buf bytes.Buffer
	if err := templates.ReservationEmail.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("execute email template: %w", err)
	}
	return subject, plain, buf.String(), nil
}

func reservationSMS(view entities.ReservationResponse, status string) string {
	if status == statusCancelled {
		return fmt.Sprintf("ParkingLot: reservation for %s at %s spot #%d has been cancelled.",
			view.CarLicense, view.ParkingLotName, view.ParkingSpotNumber)
	}
	return fmt.Sprintf("ParkingLot: reservation for %s at %s spot #%d confirmed. Expires %s.",
		view.CarLicense, view.ParkingLotName, view.ParkingSpotNumber, view.ExpiredTime)
}

func logSendError(log zerolog.Logger, err error, channel string) {
	if errors.Is(err, ErrChannelDisabled) {
		log.Warn().Str("channel", channel).Msg("notification: channel disabled, skipping")
		return
	}
	log.Error().Err(err).Str("channel", channel).Msg("notification: send failed")
}
