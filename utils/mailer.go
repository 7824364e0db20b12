package utils

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

func init() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("AWS config load failed: %v", err)
	}
	sesClient = ses.NewFromConfig(cfg)
}

func sendEmail(to string, subject string, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendMFAEmail delivers the one-time login code.
func SendMFAEmail(to string, code string) error {
	subject := "BariPlus - Seu código de verificação"
	body := fmt.Sprintf("Olá!\n\nSeu código de verificação é: %s\n\nUse-o para concluir seu login no BariPlus.\n\nEquipe BariPlus", code)
	return sendEmail(to, subject, body)
}

// SendResetEmail delivers the password reset code.
func SendResetEmail(to string, token string) error {
	subject := "BariPlus - Redefinição de senha"
	body := fmt.Sprintf("Olá!\n\nRecebemos um pedido para redefinir sua senha.\n\nSeu código é: %s\n\nInforme-o no aplicativo para criar uma nova senha. Se você não fez esse pedido, ignore este e-mail.\n\nEquipe BariPlus", token)
	return sendEmail(to, subject, body)
}
