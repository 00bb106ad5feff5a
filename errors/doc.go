/*
Package errors implements the error registry shared by the ledger and the
programs it runs.

Every failure a transaction can end with is a registered root error with a
unique numeric code. The code is what the ledger reports back to the
submitter (see ABCIInfo), so the set of codes is the exhaustive translation
table between Go errors and the numeric result space. Ledger level errors
are declared here, programs declare their own with Register(code,
description) using codes from 1000 up.

Add context with Wrap/Wrapf. Use ErrXxx.Is(err) to test the kind of an
error, wrapped or not. Registered lists the whole table.

There is also support for stacktraces. Create the error at the point of
failure with errors.Wrap(ErrXxx, "...") to attach a stacktrace. If you wrap multiple times, only the first wrap records the
stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context for the error

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
