// Package environment describes the database environments dbkeeper operates on.
//
// An Environment is an immutable connection descriptor: credentials, the database
// host and name, an optional SSH jump host and the read-only policy guarding every
// destructive operation. Environments are built from the credentials file (see the
// config package) once per invocation and never change afterwards.
//
// # Read-only Policy
//
// The ReadOnly policy is a tri-state gate:
//   - ReadOnlyTrue: destructive operations are always refused
//   - ReadOnlyFalse: destructive operations always proceed
//   - ReadOnlyAsk: the operator must type "yes" at an interactive prompt
//
// # SSH Environments
//
// When an SSH hostname is configured, database clients are run on the jump host
// through `ssh -C`. The SSH hostname can never point back at the local machine:
//
//	env, err := environment.New(environment.Params{
//		Name:        "production",
//		Username:    "app",
//		Password:    "secret",
//		Database:    "app",
//		Hostname:    "10.0.0.12",
//		SSHHostname: "bastion.example.com",
//		SSHUsername: "deploy",
//		ReadOnly:    environment.ReadOnlyAsk,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(env.SSHTarget()) // deploy@bastion.example.com
package environment
