package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gpslab/clientcore/internal/config"
	"github.com/gpslab/clientcore/internal/locale"
	"github.com/gpslab/clientcore/internal/validation"
)

var (
	validateOutput    string
	validateLocale    string
	emailStrict       bool
	emailAllowDisp    bool
	emailRequireEdu   bool
	passwordMinLength int
	passwordConfirm   string
	passwordUserEmail string
	passwordUsername  string
	formFile          string
	formStopOnFirst   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the validation engine against a value",
}

var validateEmailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Validate an email address",
	Long: `Validate an email address against format and policy rules and
classify its provider.

Examples:
  gpslab validate email student@university.edu
  gpslab validate email user@mailinator.com --allow-disposable
  gpslab validate email applicant@snu.ac.kr --require-educational -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateEmail,
}

var validatePasswordCmd = &cobra.Command{
	Use:   "password <password>",
	Short: "Validate a password and report its strength",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidatePassword,
}

var validateFormCmd = &cobra.Command{
	Use:   "form",
	Short: "Validate a form definition from a JSON file",
	Long: `Validate form values against per-field rules read from a JSON
file with the shape:

  {
    "values": {"username": "gps_student", "stage": "12"},
    "fields": {
      "username": [{"type": "required"}, {"type": "username"}],
      "stage":    [{"type": "stage_number"}]
    }
  }`,
	RunE: runValidateForm,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.AddCommand(validateEmailCmd, validatePasswordCmd, validateFormCmd)

	addOutputFlag(validateCmd.PersistentFlags(), &validateOutput)
	validateCmd.PersistentFlags().StringVar(&validateLocale, "locale", "", "Message locale (BCP 47 tag)")

	validateEmailCmd.Flags().BoolVar(&emailStrict, "strict", true, "Require a known public suffix")
	validateEmailCmd.Flags().BoolVar(&emailAllowDisp, "allow-disposable", false, "Accept throwaway providers")
	validateEmailCmd.Flags().BoolVar(&emailRequireEdu, "require-educational", false, "Only accept academic domains")

	validatePasswordCmd.Flags().IntVar(&passwordMinLength, "min-length", 0, "Minimum length (0 uses the configured policy)")
	validatePasswordCmd.Flags().StringVar(&passwordConfirm, "confirm", "", "Confirmation value to compare against")
	validatePasswordCmd.Flags().StringVar(&passwordUserEmail, "user-email", "", "Account email, rejected as password content")
	validatePasswordCmd.Flags().StringVar(&passwordUsername, "username", "", "Account handle, rejected as password content")

	validateFormCmd.Flags().StringVarP(&formFile, "file", "f", "", "Form definition file (JSON)")
	validateFormCmd.Flags().BoolVar(&formStopOnFirst, "stop-on-first", false, "Stop at the first failing rule per field")
	_ = validateFormCmd.MarkFlagRequired("file")
}

func messageLocale(cfg *config.Config) locale.Locale {
	tag := validateLocale
	if tag == "" {
		tag = cfg.Validation.Locale
	}
	return locale.Match(tag)
}

func runValidateEmail(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := validation.EmailOptions{
		Required:           true,
		Strict:             emailStrict,
		AllowDisposable:    emailAllowDisp || cfg.Validation.AllowDisposable,
		RequireEducational: emailRequireEdu || cfg.Validation.RequireEducational,
		Locale:             messageLocale(cfg),
	}

	result := validation.ValidateEmail(args[0], opts)
	payload := map[string]interface{}{
		"isValid": result.IsValid,
		"class":   string(validation.ClassifyEmail(args[0])),
	}
	if !result.IsValid {
		payload["error"] = result.Error
	}

	if err := printPayload(os.Stdout, validateOutput, payload); err != nil {
		return err
	}
	if !result.IsValid {
		os.Exit(1)
	}
	return nil
}

func runValidatePassword(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	policy := validation.DefaultPasswordPolicy()
	policy.MinLength = cfg.Validation.MinPasswordLength
	if passwordMinLength > 0 {
		policy.MinLength = passwordMinLength
	}

	report := validation.ValidatePassword(args[0], validation.PasswordOptions{
		Policy: policy,
		User: validation.UserInfo{
			Email:    passwordUserEmail,
			Username: passwordUsername,
		},
		Locale: messageLocale(cfg),
	})

	ok := report.IsValid
	payload := map[string]interface{}{"report": report}
	if passwordConfirm != "" {
		match := validation.ValidatePasswordMatch(args[0], passwordConfirm, messageLocale(cfg))
		payload["match"] = match
		ok = ok && match.IsValid
	}

	if err := printPayload(os.Stdout, validateOutput, payload); err != nil {
		return err
	}
	if !ok {
		os.Exit(1)
	}
	return nil
}

// formDefinition is the on-disk shape consumed by "validate form".
type formDefinition struct {
	Values map[string]string                `json:"values"`
	Fields map[string][]validation.RuleSpec `json:"fields"`
}

func runValidateForm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(formFile)
	if err != nil {
		return fmt.Errorf("reading form definition: %w", err)
	}

	var definition formDefinition
	if err := json.Unmarshal(raw, &definition); err != nil {
		return fmt.Errorf("parsing form definition: %w", err)
	}

	schema, err := validation.SchemaFromSpecs(definition.Fields)
	if err != nil {
		return err
	}

	result := validation.ValidateForm(definition.Values, schema, validation.FieldOptions{
		Locale:      messageLocale(cfg),
		StopOnFirst: formStopOnFirst,
	})

	if err := printPayload(os.Stdout, validateOutput, result); err != nil {
		return err
	}
	if !result.IsValid {
		os.Exit(1)
	}
	return nil
}
