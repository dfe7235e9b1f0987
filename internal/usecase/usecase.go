package usecase

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
)

// ConfirmationSender dispatches a confirmation code to the user's mailbox.
// *queue.Client implements it by publishing a task for the mailer worker.
type ConfirmationSender interface {
	SendConfirmationCode(ctx context.Context, email, username, code string) error
}

// TokenIssuer signs access credentials. *jwt.Service implements it.
type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
}

type CodeGenerator func() (string, error)

const (
	confirmationCodeMin = 100000
	confirmationCodeMax = 999999
)

// GenerateConfirmationCode returns a uniformly random six digit code.
func GenerateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(confirmationCodeMax-confirmationCodeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+confirmationCodeMin, 10), nil
}

func userSubject(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
