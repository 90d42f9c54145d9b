package infra

const (
	// Runtime is the custom runtime every function runs on.
	Runtime = "provided.al2023"

	// Handler is the executable name inside each function archive.
	Handler = "bootstrap"

	basicExecutionPolicy = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"
)

// statement builds an Allow policy statement.
func statement(actions []string, resources ...any) map[string]any {
	a := make([]any, len(actions))
	for i, act := range actions {
		a[i] = act
	}
	return map[string]any{
		"Effect":   "Allow",
		"Action":   a,
		"Resource": resources,
	}
}

// lambdaRole builds an execution role for a function with one inline policy.
func lambdaRole(policyName string, statements ...map[string]any) ResourceDef {
	stmts := make([]any, len(statements))
	for i, s := range statements {
		stmts[i] = s
	}
	return ResourceDef{
		Type: "AWS::IAM::Role",
		Properties: map[string]any{
			"AssumeRolePolicyDocument": map[string]any{
				"Version": "2012-10-17",
				"Statement": []any{
					map[string]any{
						"Effect":    "Allow",
						"Principal": map[string]any{"Service": "lambda.amazonaws.com"},
						"Action":    "sts:AssumeRole",
					},
				},
			},
			"ManagedPolicyArns": []any{basicExecutionPolicy},
			"Policies": []any{
				map[string]any{
					"PolicyName": policyName,
					"PolicyDocument": map[string]any{
						"Version":   "2012-10-17",
						"Statement": stmts,
					},
				},
			},
		},
	}
}

// function builds a Lambda function whose archive is artifact in the artifact bucket.
func function(artifact, role string, timeout int, env map[string]any) ResourceDef {
	props := map[string]any{
		"Runtime":       Runtime,
		"Handler":       Handler,
		"Architectures": []any{"arm64"},
		"Code": map[string]any{
			"S3Bucket": Ref("ArtifactBucket"),
			"S3Key":    artifact,
		},
		"Role":    GetAtt{role, "Arn"},
		"Timeout": timeout,
	}
	if len(env) > 0 {
		props["Environment"] = map[string]any{"Variables": env}
	}
	return ResourceDef{Type: "AWS::Lambda::Function", Properties: props}
}

// queueSource maps an SQS queue onto a function.
func queueSource(queue, fn string) ResourceDef {
	return ResourceDef{
		Type: "AWS::Lambda::EventSourceMapping",
		Properties: map[string]any{
			"EventSourceArn": GetAtt{queue, "Arn"},
			"FunctionName":   Ref(fn),
			"BatchSize":      10,
		},
	}
}

// rawSubscription delivers topic messages unwrapped to queue.
func rawSubscription(topic, queue string) ResourceDef {
	return ResourceDef{
		Type: "AWS::SNS::Subscription",
		Properties: map[string]any{
			"Protocol":           "sqs",
			"TopicArn":           Ref(topic),
			"Endpoint":           GetAtt{queue, "Arn"},
			"RawMessageDelivery": true,
		},
	}
}

// topicToQueuePolicy lets topic send to queue.
func topicToQueuePolicy(topic, queue string) ResourceDef {
	return ResourceDef{
		Type: "AWS::SQS::QueuePolicy",
		Properties: map[string]any{
			"Queues": []any{Ref(queue)},
			"PolicyDocument": map[string]any{
				"Version": "2012-10-17",
				"Statement": []any{
					map[string]any{
						"Effect":    "Allow",
						"Principal": map[string]any{"Service": "sns.amazonaws.com"},
						"Action":    "sqs:SendMessage",
						"Resource":  GetAtt{queue, "Arn"},
						"Condition": map[string]any{
							"ArnEquals": map[string]any{"aws:SourceArn": Ref(topic)},
						},
					},
				},
			},
		},
	}
}

func queue(visibilityTimeout int) ResourceDef {
	return ResourceDef{
		Type:       "AWS::SQS::Queue",
		Properties: map[string]any{"VisibilityTimeout": visibilityTimeout},
	}
}

func restAPI(name, description string) ResourceDef {
	return ResourceDef{
		Type: "AWS::ApiGateway::RestApi",
		Properties: map[string]any{
			"Name":        name,
			"Description": description,
		},
	}
}

// rootGet proxies GET / on api to fn.
func rootGet(api, fn string, auth map[string]any) ResourceDef {
	props := map[string]any{
		"RestApiId":         Ref(api),
		"ResourceId":        GetAtt{api, "RootResourceId"},
		"HttpMethod":        "GET",
		"AuthorizationType": "NONE",
		"Integration": map[string]any{
			"Type":                  "AWS_PROXY",
			"IntegrationHttpMethod": "POST",
			"Uri":                   Sub("arn:aws:apigateway:${AWS::Region}:lambda:path/2015-03-31/functions/${" + fn + ".Arn}/invocations"),
		},
	}
	for k, v := range auth {
		props[k] = v
	}
	return ResourceDef{Type: "AWS::ApiGateway::Method", Properties: props}
}

func deployment(api, method string) ResourceDef {
	return ResourceDef{
		Type: "AWS::ApiGateway::Deployment",
		Properties: map[string]any{
			"RestApiId": Ref(api),
			"StageName": "prod",
		},
		DependsOn: []string{method},
	}
}

// invokePermission lets api invoke fn.
func invokePermission(api, fn string) ResourceDef {
	return ResourceDef{
		Type: "AWS::Lambda::Permission",
		Properties: map[string]any{
			"Action":       "lambda:InvokeFunction",
			"FunctionName": GetAtt{fn, "Arn"},
			"Principal":    "apigateway.amazonaws.com",
			"SourceArn":    Sub("arn:aws:execute-api:${AWS::Region}:${AWS::AccountId}:${" + api + "}/*/GET/"),
		},
	}
}
