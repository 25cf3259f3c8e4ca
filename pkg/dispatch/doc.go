/*
Package dispatch sends one HTTP request per operator action and classifies
what came back.

A Dispatcher enforces the credential policy of an ActionDescriptor before
anything reaches the network, attaches the tenant and token headers, and
returns a RawResult. Normalize turns that RawResult into a domain.Outcome.
No retries are attempted and no client-side timeout is imposed beyond the
caller's context.
*/
package dispatch
