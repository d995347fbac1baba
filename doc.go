// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package gosei is a Go client for the SEI (Sistema Eletrônico de Informações)
SOAP web service.

# Overview

go-sei binds a SOAP client to the WSDL contract of a SEI environment
(homologação or produção), identifies every call with the calling system
acronym and service key, and exposes the web service operations as typed
methods. Unit, user, document series and country names are resolved to the
numeric IDs the service expects through directory tables that are listed once
per client.

# Package Structure

	github.com/sirosfoundation/go-sei/pkg/sei         - Client, operation catalogue, directory cache, wrappers
	github.com/sirosfoundation/go-sei/pkg/sei/seitest - Fake SEI endpoint for tests
	github.com/sirosfoundation/go-sei/pkg/soap        - SOAP 1.1 RPC envelope codec
	github.com/sirosfoundation/go-sei/pkg/wsdl        - Environment selection, WSDL download, cache and parsing
	github.com/sirosfoundation/go-sei/pkg/transport   - HTTPS transport with TLS 1.2/1.3
	github.com/sirosfoundation/go-sei/cmd/seiws       - Command line tool

# Quick Start

	client, err := sei.NewClient(ctx, sei.Config{
	    Ambiente:     "homologação",
	    SiglaSistema: "InovaFiscaliza",
	    ChaveAPI:     os.Getenv("SEI_HM_API_KEY"),
	    SiglaUnidade: "FISF",
	    CacheDir:     cacheDir,
	})
	if err != nil {
	    return err
	}

	ok, err := client.EnviarProcesso(ctx, sei.EnvioProcesso{
	    ProtocoloProcedimento: "53500.000124/2024-04",
	    UnidadesDestino:       []string{"SFI", "FIGF"},
	})

# Errors

Invalid input is rejected before any request and matches sei.ErrValidation.
Remote failures are returned as *sei.CallError wrapping either a *soap.Fault
or an error matching sei.ErrTransport. Nothing is retried.

# Observability

Calls are logged with log/slog (the service key is masked), counted in
Prometheus collectors registered on a caller supplied registerer, and traced
with OpenTelemetry spans named sei.<operation>.

# License

BSD-2-Clause License
*/
package gosei
