package errs

import "fmt"

type Code string

const (
	MissingBuildID Code = "MISSING_BUILD_ID"
	MissingHost    Code = "MISSING_HOST"
	BackendNotUp   Code = "BACKEND_NOT_UP"
	InvalidConfig  Code = "INVALID_CONFIG"
)

var messages = map[Code]string{
	MissingBuildID: `Missing build id: no commit reference and no override

Usage:
  - Let the build provider set it:
      COMMIT_REF=<sha> extwait %[1]s
  - Or pin it explicitly:
      extwait %[1]s --build-id foobar

Reason:
  The build id is the first 7 characters of COMMIT_REF unless
  NEXT_PUBLIC_EXT_BUILD_ID holds a non-empty override.`,

	MissingHost: `Missing backend host

Usage:
  NEXT_PUBLIC_FRONTASTIC_HOST=https://<project>.frontastic.io extwait %[1]s
  extwait %[1]s --host https://<project>.frontastic.io

Reason:
  The status endpoint is <host>%[2]s.`,

	BackendNotUp: `Extension is not up

The extension runner never reported ready for build %[1]s after %[2]d attempts.
Last answer: %[3]s

To publish without waiting, set:
  NETLIFY_PLUGIN_COMMERCETOOLS_FRONTEND_WAIT_DISABLE=1`,

	InvalidConfig: `Invalid configuration

%[1]v`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
