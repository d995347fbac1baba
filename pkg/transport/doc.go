// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package transport implements the HTTPS transport used to reach SEI web services.

It posts SOAP 1.1 envelopes with the SOAPAction header and downloads WSDL
documents, over TLS 1.2/1.3.

# TLS Configuration

The package recommends TLS 1.3 with fallback to TLS 1.2:

	config := transport.DefaultHTTPSConfig()
	// MinTLSVersion: TLS 1.2
	// MaxTLSVersion: TLS 1.3

For TLS 1.2, the following cipher suites are recommended:
  - TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384
  - TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256
  - TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384
  - TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256

A private CA bundle is added through RootCAs.

# Client Usage

	client := transport.NewHTTPSClient(&transport.HTTPSConfig{
	    MinTLSVersion: transport.TLS12,
	    RootCAs:       certPool,
	    Timeout:       30 * time.Second,
	})

	response, err := client.Send(ctx, "https://seihm.anatel.gov.br/sei/ws/SeiWS.php",
	    envelope, transport.ContentTypeSOAP11, "SeiAction")

# Errors

Every failure wraps [ErrTransport]. A non-200 answer is reported as a
[*StatusError] carrying the body, since SOAP 1.1 servers send faults with
HTTP 500.

# References

  - SOAP 1.1: https://www.w3.org/TR/2000/NOTE-SOAP-20000508/
  - TLS 1.3 RFC 8446: https://datatracker.ietf.org/doc/html/rfc8446
  - TLS 1.2 RFC 5246: https://datatracker.ietf.org/doc/html/rfc5246
*/
package transport
